package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Bodega-api/pkg/jwt"
)

const secret = "auth-test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *usecase.UserUseCase) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlite.Migrate(ctx, db)
	require.NoError(t, err)

	repo := sqlite.NewUserRepository(db)
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "bodega-test"})
	return uc, usecase.NewUserUseCase(repo).WithBcryptCost(bcrypt.MinCost)
}

func TestLoginWithPin_EmiteTokenConRol(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	u, err := users.Create(ctx, dto.CreateUserRequest{Name: "Asha", Pin: "1234", Role: entity.RoleAdmin})
	require.NoError(t, err)

	out, err := uc.LoginWithPin(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, "bodega-test", claims.Issuer)
}

func TestLoginWithPin_Rechazos(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	u, err := users.Create(ctx, dto.CreateUserRequest{Name: "Ravi", Pin: "5678", Role: entity.RoleOperator})
	require.NoError(t, err)

	for _, pin := range []string{"0000", "56a8", "567", ""} {
		_, err := uc.LoginWithPin(ctx, pin)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, pin)
	}

	require.NoError(t, users.SetActive(ctx, u.ID, false))
	_, err = uc.LoginWithPin(ctx, "5678")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un usuario inactivo no puede entrar")
}
