package gateway

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"campus-scheduler/internal/auth"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/middleware"
	"campus-scheduler/internal/model"
)

const tokenCookie = "token"

// requireAuth accepts the JWT from the token cookie or an Authorization
// bearer header.
func requireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(tokenCookie)
		if err != nil || raw == "" {
			raw = middleware.BearerToken(c.GetHeader("Authorization"))
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided, authorization denied"})
			return
		}
		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		c.Request = c.Request.WithContext(middleware.WithIdentity(c.Request.Context(), claims.UserID, claims.Role))
		c.Next()
	}
}

func requireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, _ := middleware.Identity(c.Request.Context())
		if !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied, insufficient role"})
			return
		}
		c.Next()
	}
}

func rateLimit(rl *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}

func actor(c *gin.Context) booking.Actor {
	uid, role, _ := middleware.Identity(c.Request.Context())
	return booking.Actor{ID: uid, Role: role}
}
