package service

import (
	"context"
	"net/url"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// PayLaterService manages deferred payments
type PayLaterService struct {
	records collection[domain.PayLaterRecord]
	logger  *zap.Logger
	now     func() time.Time
}

// NewPayLaterService creates a new pay-later service
func NewPayLaterService(client *upstream.Client, logger *zap.Logger) *PayLaterService {
	return &PayLaterService{
		records: newCollection[domain.PayLaterRecord](client, upstream.PathPayLater, "pay-later record", logger),
		logger:  logger,
		now:     time.Now,
	}
}

// List returns pay-later records, optionally filtered by status
func (s *PayLaterService) List(ctx context.Context, status domain.PayLaterStatus) ([]domain.PayLaterRecord, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	return s.records.list(ctx, query)
}

// MarkPaid settles a pay-later record
func (s *PayLaterService) MarkPaid(ctx context.Context, id domain.ID) (*MutationResult[domain.PayLaterRecord], error) {
	payload := struct {
		Status domain.PayLaterStatus `json:"status"`
		PaidAt time.Time             `json:"paidAt"`
	}{
		Status: domain.PayLaterStatusPaid,
		PaidAt: s.now().UTC(),
	}

	result, err := s.records.action(ctx, id, "status", payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pay-later record marked paid", zap.String("record_id", id.String()))
	return result, nil
}

func (s *PayLaterService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.PayLaterRecord], error) {
	result, err := s.records.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pay-later record deleted", zap.String("record_id", id.String()))
	return result, nil
}
