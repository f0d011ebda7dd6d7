package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// OrderService manages shop orders
type OrderService struct {
	orders collection[domain.Order]
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(client *upstream.Client, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: newCollection[domain.Order](client, upstream.PathOrders, "order", logger),
		logger: logger,
	}
}

// List returns orders, optionally only those with the given status
func (s *OrderService) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	query := url.Values{}
	if status != "" {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
		}
		query.Set("status", string(status))
	}
	return s.orders.list(ctx, query)
}

// Get returns one order
func (s *OrderService) Get(ctx context.Context, id domain.ID) (*domain.Order, error) {
	return s.orders.get(ctx, id)
}

// UpdateStatus moves an order to a new fulfilment status
func (s *OrderService) UpdateStatus(ctx context.Context, id domain.ID, req *domain.OrderStatusRequest) (*MutationResult[domain.Order], error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, req.Status)
	}

	result, err := s.orders.action(ctx, id, "status", map[string]string{"status": string(req.Status)})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(req.Status)))
	return result, nil
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Order], error) {
	result, err := s.orders.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order deleted", zap.String("order_id", id.String()))
	return result, nil
}
