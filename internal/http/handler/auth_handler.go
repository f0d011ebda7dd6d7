package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// AuthHandler handles staff sign-in and identity
type AuthHandler struct {
	authService  *service.AuthService
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, auditService *service.AuditLogService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
		logger:       logger,
	}
}

// StaffDTO is the signed-in staff member
type StaffDTO struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"isAdmin"`
}

// Login godoc
// @Summary Staff login
// @Description Forwards staff credentials to the business API and returns its token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Envelope{data=domain.LoginResponse}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 429 {object} domain.APIError "Too many sign-in attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		status := upstream.StatusOf(err)
		if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusNotFound {
			h.logger.Info("staff login rejected", zap.String("email", req.Email), zap.Int("upstream_status", status))
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondFailure(w, h.logger, "log in", err)
		return
	}

	if h.auditService != nil {
		ctx := auth.WithUserContext(r.Context(), &auth.UserContext{
			UserID:      resp.User.ID.String(),
			DisplayName: resp.User.Name,
			Email:       resp.User.Email,
		})
		_ = h.auditService.Log(ctx, r, service.LogEntry{
			Action:     domain.AuditActionLogin,
			EntityType: "Staff",
			EntityID:   resp.User.ID.String(),
			StatusCode: http.StatusOK,
		})
	}

	respondJSON(w, http.StatusOK, domain.Envelope{
		Data:  resp,
		Toast: domain.SuccessToast("Welcome back"),
	})
}

// Me godoc
// @Summary Get current staff member
// @Tags Auth
// @Produce json
// @Success 200 {object} StaffDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, StaffDTO{
		ID:      userCtx.UserID,
		Name:    userCtx.DisplayName,
		Email:   userCtx.Email,
		Roles:   userCtx.RolesAsStrings(),
		IsAdmin: userCtx.IsAdmin(),
	})
}
