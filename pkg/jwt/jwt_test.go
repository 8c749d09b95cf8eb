package jwt_test

import (
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "s1", "finance", "test", time.Hour)
	require.NoError(t, err)

	uid, sid, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	assert.Equal(t, "s1", sid)
	assert.Equal(t, "finance", role)
}

func TestGenerate_SinExpiracionParaAdmin(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "s1", "admin", "test", 0)
	require.NoError(t, err)
	_, _, _, err = jwt.Parse(secret, tok)
	assert.NoError(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "s1", "user", "test", time.Hour)
	require.NoError(t, err)
	_, _, _, err = jwt.Parse("otro", tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	claims := jwt.Claims{
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID:    "u1",
		SessionID: "s1",
		Role:      "user",
	}
	tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_SinSesion(t *testing.T) {
	claims := jwt.Claims{UserID: "u1", Role: "user"}
	tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "s1", "user", "test", time.Hour)
	assert.Error(t, err)
}
