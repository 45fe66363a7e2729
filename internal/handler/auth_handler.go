package handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "campus-scheduler/api/schedule/v1"
	"campus-scheduler/internal/account"
)

func (h *Handler) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.AuthResponse, error) {
	sess, err := h.accounts.Register(ctx, account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, accountError("register", err)
	}
	return toAuthResponse(sess), nil
}

func (h *Handler) Login(ctx context.Context, req *pb.LoginRequest) (*pb.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password required")
	}
	sess, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, accountError("login", err)
	}
	return toAuthResponse(sess), nil
}

func (h *Handler) Refresh(ctx context.Context, req *pb.RefreshRequest) (*pb.AuthResponse, error) {
	sess, err := h.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, accountError("refresh", err)
	}
	return toAuthResponse(sess), nil
}

func accountError(method string, err error) error {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		return withInfo(status.New(codes.InvalidArgument, verr.Message), "InvalidFormat",
			map[string]string{"fields": strings.Join(verr.Fields, ",")})
	case errors.Is(err, account.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrBadRefresh):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	log.Printf("%s: %v", method, err)
	return status.Error(codes.Internal, "internal error")
}

func toAuthResponse(s *account.Session) *pb.AuthResponse {
	return &pb.AuthResponse{
		UserId:       s.User.ID,
		Name:         s.User.Name,
		Email:        s.User.Email,
		Role:         string(s.User.Role),
		Token:        s.AccessToken,
		ExpiresAt:    timestamppb.New(s.AccessExpiresAt),
		RefreshToken: s.RefreshToken,
	}
}
