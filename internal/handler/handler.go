package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "campus-scheduler/api/schedule/v1"
	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/middleware"
)

type Handler struct {
	pb.UnimplementedScheduleServiceServer
	accounts *account.Service
	booking  *booking.Service
}

func New(accounts *account.Service, bk *booking.Service) *Handler {
	return &Handler{accounts: accounts, booking: bk}
}

func actor(ctx context.Context) (booking.Actor, error) {
	uid, role, ok := middleware.Identity(ctx)
	if !ok {
		return booking.Actor{}, status.Error(codes.Unauthenticated, "no identity")
	}
	return booking.Actor{ID: uid, Role: role}, nil
}
