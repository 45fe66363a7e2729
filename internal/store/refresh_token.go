package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campus-scheduler/internal/model"
)

const insertRefreshToken = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`

func (s *Store) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, insertRefreshToken, id, userID, tokenHash, expiresAt); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	rt, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[model.RefreshToken])
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

// RotateRefreshToken revokes oldID and inserts its replacement in one
// statement. Only a live token rotates; a token already revoked yields
// ErrConflict.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`WITH old AS (
		     UPDATE refresh_tokens SET revoked = true, replaced_by = $1
		     WHERE id = $2 AND NOT revoked
		     RETURNING id
		 )
		 INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		 SELECT $1, $3, $4, $5 FROM old`,
		newID, oldID, userID, newHash, newExpiry,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConflict
	}
	return nil
}

func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND NOT revoked`, userID)
	return err
}
