package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-scanner/internal/shared/server/middleware"
	"contract-scanner/internal/shared/server/respond"
	"contract-scanner/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the credential endpoints. The group is expected to
// sit behind middleware.Auth so /me can read the caller's identity.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/me", middleware.RequireUser(), h.me)
}

func (h *Handler) signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.Created(c, session)
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, session)
}

// logout always acknowledges; the client discards its token regardless.
func (h *Handler) logout(c *gin.Context) {
	if token := middleware.BearerToken(c); token != "" {
		if err := h.Svc.Logout(c.Request.Context(), token); err != nil && !errors.Is(err, ErrUnauthenticated) {
			telemetry.Warn("users.logout_revoke_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"error":      err,
			})
		}
	}
	respond.OK(c, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.Current(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", fields)
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "conflict", "An account with this email already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	default:
		telemetry.Error("users.request_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"path":       c.FullPath(),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
