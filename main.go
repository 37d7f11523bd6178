package main

import (
	"log"
	"net/http"

	"github.com/formpulse/formpulse/auth"
	"github.com/formpulse/formpulse/config"
	"github.com/formpulse/formpulse/db"
	"github.com/formpulse/formpulse/handlers"
	"github.com/formpulse/formpulse/httpx"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database connected and migrated successfully")

	if err := auth.InitStore(cfg.DatabaseURL, cfg.SessionKey); err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	r := mux.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	// Auth routes
	r.HandleFunc("/register", handlers.RegisterHandler).Methods("POST")
	r.HandleFunc("/login", handlers.LoginHandler).Methods("POST")
	r.HandleFunc("/logout", handlers.LogoutHandler).Methods("POST")
	r.HandleFunc("/auth/google", handlers.GoogleLoginHandler(cfg))
	r.HandleFunc("/auth/google/callback", handlers.GoogleCallbackHandler(cfg))
	r.HandleFunc("/api/me", auth.RequireAuth(handlers.MeHandler)).Methods("GET")

	// Survey catalog (public reads)
	r.HandleFunc("/api/surveys", handlers.ListSurveys).Methods("GET")
	r.HandleFunc("/api/surveys/{id}", handlers.GetSurvey).Methods("GET")

	// Survey authoring
	r.HandleFunc("/api/surveys", auth.RequireAuth(handlers.CreateSurvey)).Methods("POST")
	r.HandleFunc("/api/surveys/{id}", auth.RequireAuth(handlers.DeleteSurvey)).Methods("DELETE")
	r.HandleFunc("/api/surveys/{id}/responses", auth.RequireAuth(handlers.ListSurveyResponses)).Methods("GET")

	// Submission, rate limited per IP
	submitLimiter := httpx.RateLimit(rate.Limit(1), 5)
	r.Handle("/api/surveys/{id}/responses",
		submitLimiter(http.HandlerFunc(auth.RequireAuth(handlers.SubmitResponse)))).Methods("POST")

	// Response history
	r.HandleFunc("/api/responses", auth.RequireAuth(handlers.ListMyResponses)).Methods("GET")
	r.HandleFunc("/api/responses/{id}", auth.RequireAuth(handlers.GetResponseDetail)).Methods("GET")

	log.Printf("Server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
