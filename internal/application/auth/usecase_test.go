package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/antifraude-api/internal/application/auth"
	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/memory"
	"github.com/jhoicas/antifraude-api/pkg/jwt"
)

const testSecret = "test-secret"

func newAuth() *auth.AuthUseCase {
	repo := memory.NewUserRepository(memory.NewStore(time.Second))
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"})
}

func TestRegisterUser_RolPorDefecto(t *testing.T) {
	uc := newAuth()
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "13800000000", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "user", out.Role)
	assert.NotEmpty(t, out.ID)
}

func TestRegisterUser_Duplicado(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "otro-secreto"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterUser_EntradaInvalida(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	cases := []dto.RegisterRequest{
		{Username: "", Password: "secreto1"},
		{Username: "ana", Password: ""},
		{Username: "ana", Password: "corto"},
		{Username: "ana", Password: "secreto1", Role: "root"},
	}
	for _, in := range cases {
		_, err := uc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %+v", in)
	}
}

func TestLogin_TokenConIdentidad(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "admin", Password: "secreto1", Role: "admin"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "secreto1"})
	require.NoError(t, err)

	id, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id.UserID)
	assert.Equal(t, "admin", id.Username)
	assert.Equal(t, "admin", id.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSession_UsuarioInexistente(t *testing.T) {
	uc := newAuth()
	_, err := uc.Session(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
