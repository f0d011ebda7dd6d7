package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// ListKind names one of the read-mostly people lists
type ListKind string

const (
	ListEnrollments ListKind = "enrollments"
	ListVisitors    ListKind = "visitors"
	ListSubscribers ListKind = "subscribers"
)

// ParseListKind validates a list name from the URL
func ParseListKind(s string) (ListKind, error) {
	switch k := ListKind(s); k {
	case ListEnrollments, ListVisitors, ListSubscribers:
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownList, s)
}

// ListService serves the enrollment, visitor and subscriber lists
type ListService struct {
	enrollments collection[domain.Enrollment]
	visitors    collection[domain.Visitor]
	subscribers collection[domain.Subscriber]
	formatter   *pricing.Formatter
	logger      *zap.Logger
}

// NewListService creates a new list service
func NewListService(client *upstream.Client, formatter *pricing.Formatter, logger *zap.Logger) *ListService {
	return &ListService{
		enrollments: newCollection[domain.Enrollment](client, upstream.PathEnrollments, "enrollment", logger),
		visitors:    newCollection[domain.Visitor](client, upstream.PathVisitors, "visitor", logger),
		subscribers: newCollection[domain.Subscriber](client, upstream.PathSubscribers, "subscriber", logger),
		formatter:   formatter,
		logger:      logger,
	}
}

// Enrollments returns class enrollments, optionally for one class
func (s *ListService) Enrollments(ctx context.Context, classID domain.ID) ([]domain.Enrollment, error) {
	query := url.Values{}
	if classID != "" {
		query.Set("classId", classID.String())
	}
	return s.enrollments.list(ctx, query)
}

func (s *ListService) Visitors(ctx context.Context) ([]domain.Visitor, error) {
	return s.visitors.list(ctx, nil)
}

func (s *ListService) Subscribers(ctx context.Context) ([]domain.Subscriber, error) {
	return s.subscribers.list(ctx, nil)
}

// ListMutation is the refreshed list after a list entry is removed
type ListMutation struct {
	Kind  ListKind
	Items interface{}
	Stale bool
}

// Delete removes an entry from a list and returns the refreshed list
func (s *ListService) Delete(ctx context.Context, kind ListKind, id domain.ID) (*ListMutation, error) {
	result := &ListMutation{Kind: kind}

	switch kind {
	case ListEnrollments:
		res, err := s.enrollments.delete(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Stale = res.Stale
		if !res.Stale {
			result.Items = res.Items
		}
	case ListVisitors:
		res, err := s.visitors.delete(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Stale = res.Stale
		if !res.Stale {
			result.Items = res.Items
		}
	case ListSubscribers:
		res, err := s.subscribers.delete(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Stale = res.Stale
		if !res.Stale {
			result.Items = res.Items
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, kind)
	}

	s.logger.Info("list entry deleted",
		zap.String("list", string(kind)),
		zap.String("entry_id", id.String()))
	return result, nil
}

type enrollmentCSV struct {
	ID            string `csv:"ID"`
	Class         string `csv:"Class"`
	Name          string `csv:"Name"`
	Email         string `csv:"Email"`
	Phone         string `csv:"Phone"`
	Seats         string `csv:"Seats"`
	PaymentStatus string `csv:"Payment Status"`
	EnrolledAt    string `csv:"Enrolled At"`
}

type visitorCSV struct {
	ID        string `csv:"ID"`
	Name      string `csv:"Name"`
	Email     string `csv:"Email"`
	Phone     string `csv:"Phone"`
	Purpose   string `csv:"Purpose"`
	Message   string `csv:"Message"`
	VisitDate string `csv:"Visit Date"`
	CreatedAt string `csv:"Submitted At"`
}

type subscriberCSV struct {
	ID           string `csv:"ID"`
	Email        string `csv:"Email"`
	Name         string `csv:"Name"`
	SubscribedAt string `csv:"Subscribed At"`
}

// Export writes a list as CSV and returns the number of rows
func (s *ListService) Export(ctx context.Context, kind ListKind, w io.Writer) (int, error) {
	var rows interface{}
	var count int

	switch kind {
	case ListEnrollments:
		items, err := s.Enrollments(ctx, "")
		if err != nil {
			return 0, err
		}
		out := make([]enrollmentCSV, 0, len(items))
		for _, e := range items {
			out = append(out, enrollmentCSV{
				ID:            e.ID.String(),
				Class:         e.ClassTitle,
				Name:          e.Name,
				Email:         e.Email,
				Phone:         e.Phone,
				Seats:         strconv.Itoa(e.Seats),
				PaymentStatus: e.PaymentStatus,
				EnrolledAt:    s.formatter.FormatDateTime(e.EnrolledAt),
			})
		}
		rows, count = out, len(out)
	case ListVisitors:
		items, err := s.Visitors(ctx)
		if err != nil {
			return 0, err
		}
		out := make([]visitorCSV, 0, len(items))
		for _, v := range items {
			out = append(out, visitorCSV{
				ID:        v.ID.String(),
				Name:      v.Name,
				Email:     v.Email,
				Phone:     v.Phone,
				Purpose:   v.Purpose,
				Message:   v.Message,
				VisitDate: s.formatter.FormatDate(v.VisitDate),
				CreatedAt: s.formatter.FormatDateTime(v.CreatedAt),
			})
		}
		rows, count = out, len(out)
	case ListSubscribers:
		items, err := s.Subscribers(ctx)
		if err != nil {
			return 0, err
		}
		out := make([]subscriberCSV, 0, len(items))
		for _, sub := range items {
			out = append(out, subscriberCSV{
				ID:           sub.ID.String(),
				Email:        sub.Email,
				Name:         sub.Name,
				SubscribedAt: s.formatter.FormatDateTime(sub.SubscribedAt),
			})
		}
		rows, count = out, len(out)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownList, kind)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("failed to write %s csv: %w", kind, err)
	}
	return count, nil
}
