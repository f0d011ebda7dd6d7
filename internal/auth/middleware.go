package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/logger"
	"go.uber.org/zap"
)

// APIKeyHeader carries the system key used by automation instead of a staff token
const APIKeyHeader = "x-api-key"

// Middleware authenticates console requests with a staff token or the system API key
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       []byte
	log          *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, log *zap.Logger) *Middleware {
	if cfg.Auth.JWTSecret == "" {
		log.Warn("staff JWT secret not configured, only API key authentication is available")
	}
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		apiKey:       []byte(cfg.ApiKey.Value),
		log:          log,
	}
}

// systemUser is the identity used for API key requests
func systemUser() *UserContext {
	return &UserContext{
		UserID:      "system",
		DisplayName: "System",
		Email:       "system@console.local",
		Roles:       []domain.StaffRole{domain.RoleSystem},
	}
}

// Authenticate resolves the caller and stores it in the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.identify(r)
		if err != nil {
			m.log.Warn("authentication failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			reject(w, http.StatusUnauthorized, err.Error(), signInToast(err))
			return
		}

		logger.WithUser(m.log, user.UserID, user.DisplayName).Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.Strings("roles", user.RolesAsStrings()),
		)
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), user)))
	})
}

var (
	errMissingCredentials = errors.New("missing authorization header")
	errMalformedHeader    = errors.New("invalid authorization header format")
	errBadAPIKey          = errors.New("invalid API key")
)

func (m *Middleware) identify(r *http.Request) (*UserContext, error) {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		if len(m.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(key), m.apiKey) != 1 {
			return nil, errBadAPIKey
		}
		return systemUser(), nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errMissingCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, errMalformedHeader
	}
	return m.jwtValidator.ValidateToken(strings.TrimSpace(token))
}

func signInToast(err error) string {
	if errors.Is(err, ErrExpiredToken) {
		return "Your session has expired, please sign in again"
	}
	return "Please sign in to continue"
}

// RequireRole lets a request through when the caller holds one of roles. System (API key)
// callers always pass.
func (m *Middleware) RequireRole(roles ...domain.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := FromContext(r.Context())
			if !ok || user == nil {
				reject(w, http.StatusForbidden, "no user context", "You do not have access to this action")
				return
			}

			if !user.HasRole(domain.RoleSystem) && !user.HasAnyRole(roles...) {
				logger.WithUser(m.log, user.UserID, user.DisplayName).Warn("insufficient role",
					zap.String("path", r.URL.Path),
					zap.Strings("roles", user.RolesAsStrings()),
				)
				reject(w, http.StatusForbidden, "insufficient permissions", "Only an admin can do that")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, status int, detail, toast string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   http.StatusText(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Toast:  domain.ErrorToast(toast),
	})
}
