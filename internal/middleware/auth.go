package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"campus-scheduler/internal/auth"
	"campus-scheduler/internal/model"
)

type ctxKey string

const (
	UserIDKey ctxKey = "uid"
	RoleKey   ctxKey = "role"
)

// skip auth for these
var open = map[string]bool{
	"/appointment.v1.ScheduleService/Register": true,
	"/appointment.v1.ScheduleService/Login":    true,
	"/appointment.v1.ScheduleService/Refresh":  true,
}

// WithIdentity stores the authenticated caller in ctx. The HTTP gateway uses
// it too.
func WithIdentity(ctx context.Context, uid string, role model.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, RoleKey, role)
}

// Identity returns the caller stored by WithIdentity.
func Identity(ctx context.Context) (uid string, role model.Role, ok bool) {
	uid, _ = ctx.Value(UserIDKey).(string)
	role, _ = ctx.Value(RoleKey).(model.Role)
	return uid, role, uid != ""
}

// BearerToken strips the scheme from an Authorization header value.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = BearerToken(vals[0])
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}

		return next(WithIdentity(ctx, claims.UserID, claims.Role), req)
	}
}
