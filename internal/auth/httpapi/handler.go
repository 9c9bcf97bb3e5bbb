package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/app"
	"github.com/danipaBernales/modern-ecommerce/internal/auth/domain"
)

// CartResetter clears purchase-intent state on sign-out.
type CartResetter interface {
	Reset(ctx context.Context)
}

type Handler struct {
	svc  *app.Service
	cart CartResetter
}

func NewHandler(svc *app.Service, cart CartResetter) *Handler {
	return &Handler{svc: svc, cart: cart}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/auth/signup", h.signUp)
	r.POST("/auth/signin", h.signIn)
	r.POST("/auth/signout", h.signOut)
	r.GET("/auth/me", h.me)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: err.Error()})
		return
	}

	session, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "email, username and a password of at least 6 characters are required"})
		return
	case errors.Is(err, app.ErrUsernameTaken):
		c.JSON(http.StatusConflict, errorResponse{Error: "USERNAME_TAKEN", Message: "username is already taken, please choose another one"})
		return
	case errors.Is(err, app.ErrProfileUnavailable):
		// Sign-up succeeded; the profile row just has not appeared
		// yet. Non-blocking for the client.
		c.JSON(http.StatusCreated, sessionPayload(session, true))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "SIGNUP_FAILED", Message: "could not create account"})
		return
	}

	c.JSON(http.StatusCreated, sessionPayload(session, false))
}

func (h *Handler) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: err.Error()})
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "INVALID_CREDENTIALS", Message: "email or password is incorrect"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "SIGNIN_FAILED", Message: "could not sign in"})
		return
	}

	c.JSON(http.StatusOK, sessionPayload(session, session.Profile == nil))
}

// signOut drops client state. The token itself is stateless; the cart
// reset is the server-side effect.
func (h *Handler) signOut(c *gin.Context) {
	if h.cart != nil {
		h.cart.Reset(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHENTICATED", Message: "missing bearer token"})
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHENTICATED", Message: "invalid session"})
		return
	}

	payload := gin.H{"user": userPayload(user)}
	if profile, err := h.svc.Profile(c.Request.Context(), user.ID); err == nil {
		payload["profile"] = profilePayload(profile)
	}
	c.JSON(http.StatusOK, payload)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func sessionPayload(s app.Session, profilePending bool) gin.H {
	payload := gin.H{
		"user":            userPayload(s.User),
		"token":           s.Token,
		"profile_pending": profilePending,
	}
	if s.Profile != nil {
		payload["profile"] = profilePayload(*s.Profile)
	}
	return payload
}

func userPayload(u domain.User) gin.H {
	return gin.H{"id": u.ID, "email": u.Email, "username": u.Username}
}

func profilePayload(p domain.Profile) gin.H {
	return gin.H{
		"id":        p.ID,
		"username":  p.Username,
		"full_name": p.FullName,
		"address":   p.Address,
		"phone":     p.Phone,
	}
}
