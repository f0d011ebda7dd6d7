package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

var weekdayOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// OfficeTimingService manages weekly opening hours
type OfficeTimingService struct {
	timings collection[domain.OfficeTiming]
	logger  *zap.Logger
}

// NewOfficeTimingService creates a new office timing service
func NewOfficeTimingService(client *upstream.Client, logger *zap.Logger) *OfficeTimingService {
	return &OfficeTimingService{
		timings: newCollection[domain.OfficeTiming](client, upstream.PathOfficeTiming, "office timing", logger),
		logger:  logger,
	}
}

// List returns the opening hours Monday first
func (s *OfficeTimingService) List(ctx context.Context) ([]domain.OfficeTiming, error) {
	items, err := s.timings.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	SortByWeekday(items)
	return items, nil
}

// Update sets one day's opening window. Closed days clear their times.
func (s *OfficeTimingService) Update(ctx context.Context, id domain.ID, req *domain.OfficeTimingRequest) (*MutationResult[domain.OfficeTiming], error) {
	if req.IsClosed {
		req.OpenTime, req.CloseTime = "", ""
	} else {
		if req.OpenTime == "" || req.CloseTime == "" {
			return nil, fmt.Errorf("%w: open and close times are required unless the day is closed", ErrInvalidInput)
		}
		opens, closes, err := clockWindow(req.OpenTime, req.CloseTime)
		if errors.Is(err, errEndNotAfterStart) {
			return nil, fmt.Errorf("%w: close time must be after open time", ErrInvalidInput)
		}
		if err != nil {
			return nil, err
		}
		req.OpenTime, req.CloseTime = opens, closes
	}

	result, err := s.timings.update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	SortByWeekday(result.Items)

	s.logger.Info("office timing updated",
		zap.String("day", req.Day),
		zap.Bool("closed", req.IsClosed))
	return result, nil
}

// SortByWeekday orders timings Monday to Sunday; unknown day names go last
func SortByWeekday(items []domain.OfficeTiming) {
	rank := func(day string) int {
		if r, ok := weekdayOrder[day]; ok {
			return r
		}
		return len(weekdayOrder)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return rank(items[i].Day) < rank(items[j].Day)
	})
}
