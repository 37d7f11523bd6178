package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/formpulse/formpulse/models"
	"gorm.io/gorm"
)

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func GetGoogleUserInfo(token string) (*GoogleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	var info GoogleUserInfo
	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed decoding user info: %w", err)
	}
	return &info, nil
}

// UpsertGoogleUser finds the account for a Google identity, creating it
// on first sign-in and refreshing name/picture on subsequent ones.
// An existing credential account with the same email is linked rather
// than duplicated.
func UpsertGoogleUser(db *gorm.DB, info *GoogleUserInfo) (*models.User, error) {
	var user models.User
	err := db.Where("google_id = ?", info.ID).First(&user).Error
	switch {
	case err == nil:
		user.Name = info.Name
		user.Picture = info.Picture
		if err := db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.Where("email = ?", info.Email).First(&user).Error
		if err == nil {
			googleID := info.ID
			user.GoogleID = &googleID
			user.Picture = info.Picture
			if err := db.Save(&user).Error; err != nil {
				return nil, fmt.Errorf("failed to link user: %w", err)
			}
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		googleID := info.ID
		user = models.User{
			Email:    info.Email,
			Name:     info.Name,
			GoogleID: &googleID,
			Picture:  info.Picture,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil

	default:
		return nil, err
	}
}
