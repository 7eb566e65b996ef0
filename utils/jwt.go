package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
)

// Durasi default. Bisa dioverride lewat env kalau perlu, tapi untuk
// sekarang cukup konstanta seperti ini.
const (
	AccessTokenTTL       = 15 * time.Minute
	GuestRefreshTokenTTL = 12 * time.Hour
	StaffRefreshTokenTTL = 7 * 24 * time.Hour
)

func init() {
	accessSecret := os.Getenv("ACCESS_TOKEN_SECRET")
	if accessSecret == "" {
		// Default untuk development, sama dengan yang di .env.example
		accessSecret = "AccessTokenSecretDev1945"
	}
	refreshSecret := os.Getenv("REFRESH_TOKEN_SECRET")
	if refreshSecret == "" {
		refreshSecret = "RefreshTokenSecretDev1945"
	}
	AccessTokenSecret = []byte(accessSecret)
	RefreshTokenSecret = []byte(refreshSecret)
}

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken membuat access token berumur pendek untuk staff/guest.
func GenerateAccessToken(userID uint, role string) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "restaurant-ordering",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(AccessTokenSecret)
}

// GenerateRefreshToken membuat refresh token dengan expiry eksplisit.
// Rotasi refresh token memakai expiry lama supaya umur sesi tidak
// bertambah setiap kali refresh.
func GenerateRefreshToken(userID uint, role string, expiresAt time.Time) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "restaurant-ordering",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(RefreshTokenSecret)
}

func ParseAccessToken(tokenString string) (*CustomClaims, error) {
	return parseWithSecret(tokenString, AccessTokenSecret)
}

func ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	return parseWithSecret(tokenString, RefreshTokenSecret)
}

func parseWithSecret(tokenString string, secret []byte) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
