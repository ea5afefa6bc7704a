package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims son los claims que el backend incluye en el token de
// sesión del restaurante. Este cliente solo los consume: la firma la
// verifica el servidor, aquí únicamente se inspecciona el contenido.
type TokenClaims struct {
	RestauranteID int    `json:"restauranteId"`
	Email         string `json:"email"`
	jwt.RegisteredClaims
}

// ExtractClaims decodifica el token sin verificar la firma.
func ExtractClaims(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser()
	claims := &TokenClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpired informa si el token ya venció según sus claims. Un token
// ilegible se trata como vencido.
func TokenExpired(tokenString string) (bool, error) {
	claims, err := ExtractClaims(tokenString)
	if err != nil {
		return true, err
	}
	if claims.ExpiresAt == nil {
		return false, nil
	}
	return time.Now().After(claims.ExpiresAt.Time), nil
}

var ErrEmptyToken = errors.New("token vacío")

// RequireToken valida la única invariante local: que exista un token.
func RequireToken(tokenString string) error {
	if tokenString == "" {
		return ErrEmptyToken
	}
	return nil
}
