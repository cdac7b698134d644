package transport

import (
	"net/http"

	"powermed-api/internal/middleware"
	"powermed-api/internal/repository"
	"powermed-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents the change-password request payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// LoginResponse carries the issued token alongside a redacted account
// projection.
type LoginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// AuthHandler handles HTTP requests for admin authentication.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers all admin auth routes. loginLimiter may be nil
// when rate limiting is not configured.
func (h *AuthHandler) RegisterRoutes(r chi.Router, requireAuth, requireAdmin, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter)
			}
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(requireAdmin)
			r.Get("/me", h.Me)
			r.Put("/change-password", h.ChangePassword)
		})
	})
}

// Login handles admin authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		if msg := middleware.ValidationMessage(err); msg != "" {
			middleware.RespondWithError(w, http.StatusBadRequest, "Please provide email and password")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, admin, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			// Same status and message for unknown email and wrong password.
			h.logger.Debug("Login failed", zap.String("email", req.Email))
			middleware.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		case service.ErrAccountInactive:
			middleware.RespondWithError(w, http.StatusUnauthorized, "Account is inactive")
		default:
			h.logger.Error("Login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	h.logger.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		ID:    admin.ID.String(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  "admin",
		Token: token,
	})
}

// Me returns the redacted account of the authenticated admin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Not authorized, token failed")
		return
	}

	admin, err := h.authService.Me(r.Context(), principal.ID)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Admin not found")
			return
		}
		h.logger.Error("Failed to get admin profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get admin")
		return
	}

	// PasswordHash is tagged json:"-"; the projection is redacted by shape.
	middleware.RespondWithJSON(w, http.StatusOK, admin)
}

// ChangePassword rotates the authenticated admin's password. The issuing
// token stays valid until its natural expiry; the client performs a forced
// logout on success.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Not authorized, token failed")
		return
	}

	var req ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Change password validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Please provide current password and new password")
		return
	}

	err := h.authService.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch err {
		case service.ErrPasswordTooShort:
			middleware.RespondWithError(w, http.StatusBadRequest, "New password must be at least 6 characters")
		case service.ErrPasswordUnchanged:
			middleware.RespondWithError(w, http.StatusBadRequest, "New password must be different from current password")
		case service.ErrCurrentPasswordIncorrect:
			middleware.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		case repository.ErrAdminNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "Admin not found")
		default:
			h.logger.Error("Change password failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	h.logger.Info("Admin changed password", zap.String("admin_id", principal.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
