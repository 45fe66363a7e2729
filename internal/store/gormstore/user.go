package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-scheduler/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	row := userRow{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return err
	}
	u.CreatedAt, u.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toModel(), nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toModel(), nil
}

func (s *Store) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	row := refreshTokenRow{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	return row.ID, s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var row refreshTokenRow
	if err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &model.RefreshToken{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenHash:  row.TokenHash,
		ExpiresAt:  row.ExpiresAt,
		Revoked:    row.Revoked,
		ReplacedBy: row.ReplacedBy,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// RotateRefreshToken revokes oldID and links it to the new token. A token
// that was already revoked is not rotated twice.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&refreshTokenRow{}).
			Where("id = ? AND revoked = ?", oldID, false).
			Updates(map[string]any{"revoked": true, "replaced_by": newID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrConflict
		}
		return tx.Create(&refreshTokenRow{
			ID:        newID,
			UserID:    userID,
			TokenHash: newHash,
			ExpiresAt: newExpiry,
		}).Error
	})
}

func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&refreshTokenRow{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
