package auth

import (
	"context"
	"slices"

	"github.com/bloomhouse/admin-console/internal/domain"
)

// UserContext holds the authenticated staff member
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []domain.StaffRole
	// AccessToken is the staff token, forwarded to the upstream API on every call
	AccessToken string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// AccessTokenFromContext returns the staff token of the request, or ""
func AccessTokenFromContext(ctx context.Context) string {
	if user, ok := FromContext(ctx); ok {
		return user.AccessToken
	}
	return ""
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.StaffRole) bool {
	return slices.Contains(u.Roles, role)
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.StaffRole) bool {
	return slices.ContainsFunc(roles, u.HasRole)
}

// IsAdmin reports whether the user may perform destructive operations
func (u *UserContext) IsAdmin() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleSystem)
}

// RolesAsStrings returns roles as a string slice for logging
func (u *UserContext) RolesAsStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}
