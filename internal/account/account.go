// Package account handles registration, login and refresh-token rotation.
package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-scheduler/internal/auth"
	"campus-scheduler/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrBadRefresh         = errors.New("invalid refresh token")
)

// ValidationError lists the registration fields that were refused.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]", e.Message, strings.Join(e.Fields, ", "))
}

var emailRe = regexp.MustCompile(`.+@.+\..+`)

const minPasswordLen = 8

type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

type Options struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	store Store
	opts  Options
	now   func() time.Time
}

func New(st Store, opts Options) *Service {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = auth.AccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{store: st, opts: opts, now: time.Now}
}

// Session is what a successful register/login/refresh hands back.
type Session struct {
	User             *model.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var bad []string
	if in.Name == "" {
		bad = append(bad, "name")
	}
	if !emailRe.MatchString(in.Email) {
		bad = append(bad, "email")
	}
	if len(in.Password) < minPasswordLen {
		bad = append(bad, "password")
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		bad = append(bad, "role")
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad, Message: "invalid registration"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh trades a refresh token for a new pair. Presenting a token that was
// already rotated revokes every token of its owner.
func (s *Service) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrBadRefresh
	}
	rt, err := s.store.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(raw))
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrBadRefresh
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if rt.Revoked {
		if err := s.store.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
			return nil, fmt.Errorf("revoke tokens: %w", err)
		}
		return nil, ErrBadRefresh
	}
	if !s.now().Before(rt.ExpiresAt) {
		return nil, ErrBadRefresh
	}

	u, err := s.store.FindUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	newID := uuid.New().String()
	refreshExp := s.now().Add(s.opts.RefreshTTL)
	if err := s.store.RotateRefreshToken(ctx, rt.ID, newID, u.ID, newHash, refreshExp); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, ErrBadRefresh
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s.session(u, newRaw, refreshExp)
}

func (s *Service) issue(ctx context.Context, u *model.User) (*Session, error) {
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	exp := s.now().Add(s.opts.RefreshTTL)
	if _, err := s.store.CreateRefreshToken(ctx, u.ID, hash, exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return s.session(u, raw, exp)
}

func (s *Service) session(u *model.User, refresh string, refreshExp time.Time) (*Session, error) {
	tok, err := auth.MakeToken(u.ID, u.Role, s.opts.Secret, s.opts.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{
		User:             u,
		AccessToken:      tok,
		AccessExpiresAt:  s.now().Add(s.opts.AccessTTL),
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// UserByID loads the account behind an access token. It returns
// model.ErrNotFound once the user is gone.
func (s *Service) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.store.FindUserByID(ctx, id)
}
