package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims TokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("clave-de-prueba"))
	require.NoError(t, err)
	return raw
}

func TestExtractClaims(t *testing.T) {
	raw := signedToken(t, TokenClaims{
		RestauranteID: 42,
		Email:         "ana@piru.app",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ExtractClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.RestauranteID)
	assert.Equal(t, "ana@piru.app", claims.Email)
}

func TestTokenExpired(t *testing.T) {
	vigente := signedToken(t, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	vencido := signedToken(t, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	expirado, err := TokenExpired(vigente)
	require.NoError(t, err)
	assert.False(t, expirado)

	expirado, err = TokenExpired(vencido)
	require.NoError(t, err)
	assert.True(t, expirado)
}

func TestTokenSinExpiracionNoVence(t *testing.T) {
	raw := signedToken(t, TokenClaims{RestauranteID: 1})

	expirado, err := TokenExpired(raw)
	require.NoError(t, err)
	assert.False(t, expirado)
}

func TestTokenIlegibleSeTrataComoVencido(t *testing.T) {
	expirado, err := TokenExpired("no-es-un-jwt")
	require.Error(t, err)
	assert.True(t, expirado)
}

func TestRequireToken(t *testing.T) {
	assert.ErrorIs(t, RequireToken(""), ErrEmptyToken)
	assert.NoError(t, RequireToken("algo"))
}
