package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// FeedbackService moderates customer testimonials
type FeedbackService struct {
	feedback collection[domain.Feedback]
	logger   *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(client *upstream.Client, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: newCollection[domain.Feedback](client, upstream.PathFeedback, "feedback", logger),
		logger:   logger,
	}
}

// List returns feedback; approved filters by moderation state when non-nil
func (s *FeedbackService) List(ctx context.Context, approved *bool) ([]domain.Feedback, error) {
	query := url.Values{}
	if approved != nil {
		query.Set("approved", strconv.FormatBool(*approved))
	}
	return s.feedback.list(ctx, query)
}

// SetApproved publishes or hides a testimonial
func (s *FeedbackService) SetApproved(ctx context.Context, id domain.ID, approved bool) (*MutationResult[domain.Feedback], error) {
	result, err := s.feedback.action(ctx, id, "approve", map[string]bool{"isApproved": approved})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback moderated",
		zap.String("feedback_id", id.String()),
		zap.Bool("approved", approved))
	return result, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Feedback], error) {
	result, err := s.feedback.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback deleted", zap.String("feedback_id", id.String()))
	return result, nil
}
