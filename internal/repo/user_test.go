package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

func seedUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Username:     "ana",
		Email:        "ana@example.com",
		FirstName:    "Ana",
		LastName:     "Souza",
		Role:         domain.RoleManager,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
	})
	require.NoError(t, err, "seed user")
	return u
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	created := seedUser(t, tx)
	assert.NotEqual(t, [16]byte{}, created.ID)

	byID, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)
	assert.Equal(t, domain.RoleManager, byID.Role)
	assert.NotEmpty(t, byID.PasswordHash)

	byName, err := r.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	_, err := r.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)

	seedUser(t, tx)

	_, err := r.Create(context.Background(), domain.User{
		Username:     "ana",
		Role:         domain.RoleOperator,
		PasswordHash: "$2a$04$another",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- refresh tokens --------------------------------------------------------

func TestRefreshTokenRepo_ConsumeIsSingleUse(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewRefreshTokenRepo(tx)
	ctx := context.Background()

	user := seedUser(t, tx)
	require.NoError(t, r.Save(ctx, user.ID, "hash-1", time.Now().Add(time.Hour)))

	got, err := r.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)

	_, err = r.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "a consumed token must not work twice")
}

func TestRefreshTokenRepo_Consume_Expired(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewRefreshTokenRepo(tx)
	ctx := context.Background()

	user := seedUser(t, tx)
	require.NoError(t, r.Save(ctx, user.ID, "hash-2", time.Now().Add(-time.Minute)))

	_, err := r.Consume(ctx, "hash-2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshTokenRepo_Consume_Unknown(t *testing.T) {
	r := repo.NewRefreshTokenRepo(newTestTx(t))

	_, err := r.Consume(context.Background(), "no-such-hash")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshTokenRepo_DeleteByUser(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewRefreshTokenRepo(tx)
	ctx := context.Background()

	user := seedUser(t, tx)
	require.NoError(t, r.Save(ctx, user.ID, "hash-3", time.Now().Add(time.Hour)))
	require.NoError(t, r.Save(ctx, user.ID, "hash-4", time.Now().Add(time.Hour)))

	require.NoError(t, r.DeleteByUser(ctx, user.ID))

	_, err := r.Consume(ctx, "hash-3")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = r.Consume(ctx, "hash-4")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
