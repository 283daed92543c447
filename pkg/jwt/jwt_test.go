package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/antifraude-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	id := jwt.Identity{UserID: "u-1", Username: "13800000000", Role: "admin"}
	token, err := jwt.Generate("secreto", id, "antifraude-api", 60)
	require.NoError(t, err)

	got, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", jwt.Identity{UserID: "u-1", Role: "user"}, "x", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", jwt.Identity{UserID: "u-1"}, "x", 60)
	assert.Error(t, err)
}

func TestParse_TokenBasura(t *testing.T) {
	_, err := jwt.Parse("secreto", "no-es-un-jwt")
	assert.Error(t, err)
}
