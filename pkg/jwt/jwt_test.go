package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_ConservaUsuarioYRol(t *testing.T) {
	tok, err := Generate(secret, "user-1", "supervisor", "muestras-api", 60)
	require.NoError(t, err)

	userID, role, err := Parse(secret, tok)

	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "supervisor", role)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := Generate(secret, "user-1", "admin", "muestras-api", -1)
	require.NoError(t, err)
	valid, err := Generate(secret, "user-1", "admin", "muestras-api", 60)
	require.NoError(t, err)

	_, _, err = Parse(secret, expired)
	assert.Error(t, err, "token expirado")

	_, _, err = Parse("otro-secret", valid)
	assert.Error(t, err, "firma con otro secret")

	_, _, err = Parse("", valid)
	assert.Error(t, err, "secret vacío")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "muestras-api", 60)
	assert.Error(t, err)
}
