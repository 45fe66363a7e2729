package gateway

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-scheduler/internal/account"
	"campus-scheduler/internal/model"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Message      string       `json:"message"`
	User         userResponse `json:"user"`
	Token        string       `json:"token"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *Handler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request")
		return
	}
	sess, err := h.accounts.Register(c.Request.Context(), account.RegisterInput(body))
	if err != nil {
		h.accountFail(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, "User registered successfully.", sess)
}

func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		badRequest(c, "email and password required")
		return
	}
	sess, err := h.accounts.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.accountFail(c, err)
		return
	}
	h.startSession(c, http.StatusOK, "Login successful.", sess)
}

func (h *Handler) Refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request")
		return
	}
	sess, err := h.accounts.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		h.accountFail(c, err)
		return
	}
	h.startSession(c, http.StatusOK, "Token refreshed.", sess)
}

func (h *Handler) Protected(c *gin.Context) {
	who := actor(c)
	u, err := h.accounts.UserByID(c.Request.Context(), who.ID)
	if errors.Is(err, model.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthenticated", Message: "account no longer exists"})
		return
	}
	if err != nil {
		h.accountFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Hello " + string(u.Role) + ", you are authorized!",
		"user":    toUser(u),
	})
}

func toUser(u *model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func (h *Handler) startSession(c *gin.Context, code int, msg string, s *account.Session) {
	maxAge := int(time.Until(s.AccessExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, s.AccessToken, maxAge, "/", "", h.secure, true)
	c.JSON(code, sessionResponse{
		Message:      msg,
		User:         toUser(s.User),
		Token:        s.AccessToken,
		ExpiresAt:    s.AccessExpiresAt,
		RefreshToken: s.RefreshToken,
	})
}

func (h *Handler) accountFail(c *gin.Context, err error) {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "InvalidFormat", Message: verr.Message, Fields: verr.Fields})
	case errors.Is(err, account.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, errorBody{Error: "EmailTaken", Message: "Email is already in use."})
	case errors.Is(err, account.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthenticated", Message: "Invalid credentials."})
	case errors.Is(err, account.ErrBadRefresh):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthenticated", Message: err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "Internal", Message: "internal error"})
	}
}
