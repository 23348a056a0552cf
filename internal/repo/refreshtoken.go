package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// RefreshTokenRepo persists refresh token hashes.
// Only SHA-256 hashes are stored; the raw token never touches the database.
type RefreshTokenRepo interface {
	// Save stores the hash of a newly issued refresh token for a user.
	Save(ctx context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error

	// Consume atomically deletes the token identified by hash and returns the
	// owning user ID. Returns domain.ErrUnauthorized when the hash is unknown
	// or the token has expired. Deletion on read makes refresh single-use.
	Consume(ctx context.Context, hash string) (uuid.UUID, error)

	// DeleteByUser removes all refresh tokens for a user (logout everywhere).
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type pgRefreshTokenRepo struct {
	db db
}

// NewRefreshTokenRepo constructs a RefreshTokenRepo backed by the provided db.
func NewRefreshTokenRepo(db db) RefreshTokenRepo {
	return &pgRefreshTokenRepo{db: db}
}

func (r *pgRefreshTokenRepo) Save(ctx context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	const q = `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES (@user_id, @token_hash, @expires_at)`

	args := pgx.NamedArgs{
		"user_id":    userID,
		"token_hash": hash,
		"expires_at": expiresAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.RefreshTokenRepo.Save: %w", err)
	}
	return nil
}

func (r *pgRefreshTokenRepo) Consume(ctx context.Context, hash string) (uuid.UUID, error) {
	const q = `
		DELETE FROM refresh_tokens
		WHERE token_hash = @token_hash AND expires_at > now()
		RETURNING user_id`

	var id pgtype.UUID
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"token_hash": hash}).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("repo.RefreshTokenRepo.Consume: %w", domain.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("repo.RefreshTokenRepo.Consume: %w", err)
	}
	return uuid.UUID(id.Bytes), nil
}

func (r *pgRefreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM refresh_tokens WHERE user_id = @user_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID}); err != nil {
		return fmt.Errorf("repo.RefreshTokenRepo.DeleteByUser: %w", err)
	}
	return nil
}
