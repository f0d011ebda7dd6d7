package service

import (
	"context"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// EventPricingService manages priced event packages
type EventPricingService struct {
	events collection[domain.Event]
	logger *zap.Logger
}

// NewEventPricingService creates a new event pricing service
func NewEventPricingService(client *upstream.Client, logger *zap.Logger) *EventPricingService {
	return &EventPricingService{
		events: newCollection[domain.Event](client, upstream.PathEventPricing, "event", logger),
		logger: logger,
	}
}

func (s *EventPricingService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.list(ctx, nil)
}

func (s *EventPricingService) Create(ctx context.Context, req *domain.EventRequest) (*MutationResult[domain.Event], error) {
	defaultActive(&req.IsActive)

	result, err := s.events.create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("event pricing created", zap.String("event_type", req.EventType))
	return result, nil
}

func (s *EventPricingService) Update(ctx context.Context, id domain.ID, req *domain.EventRequest) (*MutationResult[domain.Event], error) {
	defaultActive(&req.IsActive)

	result, err := s.events.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("event pricing updated", zap.String("event_id", id.String()))
	return result, nil
}

func (s *EventPricingService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Event], error) {
	result, err := s.events.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("event pricing deleted", zap.String("event_id", id.String()))
	return result, nil
}

// defaultActive sets an omitted isActive flag to true
func defaultActive(flag **bool) {
	if *flag == nil {
		active := true
		*flag = &active
	}
}
