package db

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/formpulse/formpulse/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB    *gorm.DB
	SqlDB *sql.DB
)

// Init opens the Postgres connection, configures the pool and migrates
// the schema.
func Init(dsn string) error {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      false,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return err
	}

	SqlDB, err = DB.DB()
	if err != nil {
		return err
	}

	SqlDB.SetMaxIdleConns(10)
	SqlDB.SetMaxOpenConns(100)
	SqlDB.SetConnMaxLifetime(time.Hour)

	return Migrate(DB)
}

// Migrate creates or updates the five relations: users, surveys,
// questions+options, responses, answers. Foreign keys cascade deletes
// from survey down to answer.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Response{},
		&models.Answer{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
