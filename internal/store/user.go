package store

import (
	"context"

	"campus-scheduler/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role) VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrConflict
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userWhere(ctx, `email = $1`, email)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.userWhere(ctx, `id = $1`, id)
}

func (s *Store) userWhere(ctx context.Context, cond string, arg any) (*model.User, error) {
	u := &model.User{}
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE `+cond, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	u.Role = model.Role(role)
	return u, nil
}
