package auth

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cast"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrNotConfigured = errors.New("token verification is not configured")
)

// JWTValidator validates staff tokens issued by the upstream login endpoint.
// Tokens are HS256-signed with a secret shared between the upstream and the console.
type JWTValidator struct {
	secret []byte
	issuer string
}

func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// ValidateToken verifies signature, expiry and issuer, then maps the claims to a staff member
func (v *JWTValidator) ValidateToken(raw string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, ErrNotConfigured
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return v.secret, nil }, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user := &UserContext{
		UserID:      firstClaim(claims, "id", "userId", "sub"),
		Email:       firstClaim(claims, "email"),
		Roles:       ExtractRoles(claims),
		AccessToken: raw,
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrInvalidToken)
	}
	user.DisplayName = cmp.Or(firstClaim(claims, "name", "username"), user.Email)
	return user, nil
}

// firstClaim returns the first non-empty claim among keys, numbers rendered as text
func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if s := cast.ToString(claims[key]); s != "" {
			return s
		}
	}
	return ""
}

// ExtractRoles reads the "roles" and "role" claims, as a list or a single string. Tokens
// with neither but isAdmin=true get the admin role.
func ExtractRoles(claims jwt.MapClaims) []domain.StaffRole {
	roles := []domain.StaffRole{}
	for _, key := range []string{"roles", "role"} {
		for _, name := range cast.ToStringSlice(claims[key]) {
			roles = append(roles, domain.StaffRole(strings.ToLower(name)))
		}
	}
	if len(roles) == 0 && cast.ToBool(claims["isAdmin"]) {
		roles = append(roles, domain.RoleAdmin)
	}
	return roles
}
