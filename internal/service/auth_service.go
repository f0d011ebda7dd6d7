package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// AuthService forwards staff sign-in to the upstream API
type AuthService struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewAuthService(client *upstream.Client, logger *zap.Logger) *AuthService {
	return &AuthService{client: client, logger: logger}
}

// Login exchanges staff credentials for an upstream token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	payload := domain.LoginRequest{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}

	var resp domain.LoginResponse
	if err := s.client.Do(ctx, http.MethodPost, upstream.PathLogin, nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("failed to log in: upstream returned no token")
	}

	s.logger.Info("staff logged in", zap.String("email", payload.Email))
	return &resp, nil
}
