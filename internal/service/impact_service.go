package service

import (
	"context"
	"sort"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// ImpactService manages the headline statistics of the public site
type ImpactService struct {
	impacts collection[domain.Impact]
	logger  *zap.Logger
}

// NewImpactService creates a new impact service
func NewImpactService(client *upstream.Client, logger *zap.Logger) *ImpactService {
	return &ImpactService{
		impacts: newCollection[domain.Impact](client, upstream.PathImpacts, "impact", logger),
		logger:  logger,
	}
}

// List returns impacts in display order
func (s *ImpactService) List(ctx context.Context) ([]domain.Impact, error) {
	items, err := s.impacts.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	sortImpacts(items)
	return items, nil
}

func (s *ImpactService) Create(ctx context.Context, req *domain.ImpactRequest) (*MutationResult[domain.Impact], error) {
	result, err := s.impacts.create(ctx, req)
	if err != nil {
		return nil, err
	}
	sortImpacts(result.Items)

	s.logger.Info("impact created", zap.String("title", req.Title))
	return result, nil
}

func (s *ImpactService) Update(ctx context.Context, id domain.ID, req *domain.ImpactRequest) (*MutationResult[domain.Impact], error) {
	result, err := s.impacts.update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	sortImpacts(result.Items)

	s.logger.Info("impact updated", zap.String("impact_id", id.String()))
	return result, nil
}

func (s *ImpactService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Impact], error) {
	result, err := s.impacts.delete(ctx, id)
	if err != nil {
		return nil, err
	}
	sortImpacts(result.Items)

	s.logger.Info("impact deleted", zap.String("impact_id", id.String()))
	return result, nil
}

func sortImpacts(items []domain.Impact) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
}
