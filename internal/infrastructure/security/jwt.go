// Package security provides JWT token utilities
package security

import (
	"errors"
	"log"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetProfileFromClaims extracts an account profile from JWT claims
func GetProfileFromClaims(claims jwt.MapClaims) *user.Profile {
	if profileData, ok := claims["profile"].(map[string]any); ok {
		accountID, _ := claims["accountId"].(string)
		email, _ := profileData["email"].(string)
		displayName, _ := profileData["displayName"].(string)
		return &user.Profile{
			AccountID:   accountID,
			Email:       email,
			DisplayName: displayName,
		}
	}
	return nil
}

// GenerateAccountToken creates a JWT token for an authenticated account
func GenerateAccountToken(account *user.Account, jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"accountId": account.ID,
		"profile": map[string]string{
			"email":       account.Email,
			"displayName": account.DisplayName,
		},
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("ERROR: Failed to sign JWT token: %v", err)
		return "", err
	}

	return result, nil
}
