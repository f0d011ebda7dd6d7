package service

import (
	"context"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService summarises the panels for the console landing page
type DashboardService struct {
	products    collection[domain.Product]
	orders      collection[domain.Order]
	classes     collection[domain.Class]
	coupons     collection[domain.Coupon]
	feedback    collection[domain.Feedback]
	payLater    collection[domain.PayLaterRecord]
	enrollments collection[domain.Enrollment]
	now         func() time.Time
	logger      *zap.Logger
}

func NewDashboardService(client *upstream.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		products:    newCollection[domain.Product](client, upstream.PathProducts, "product", logger),
		orders:      newCollection[domain.Order](client, upstream.PathOrders, "order", logger),
		classes:     newCollection[domain.Class](client, upstream.PathClasses, "class", logger),
		coupons:     newCollection[domain.Coupon](client, upstream.PathCoupons, "coupon", logger),
		feedback:    newCollection[domain.Feedback](client, upstream.PathFeedback, "feedback", logger),
		payLater:    newCollection[domain.PayLaterRecord](client, upstream.PathPayLater, "pay-later record", logger),
		enrollments: newCollection[domain.Enrollment](client, upstream.PathEnrollments, "enrollment", logger),
		now:         time.Now,
		logger:      logger,
	}
}

// Summary fetches every panel concurrently and counts the records. Any failed fetch fails
// the whole summary.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var (
		products    []domain.Product
		orders      []domain.Order
		classes     []domain.Class
		coupons     []domain.Coupon
		feedback    []domain.Feedback
		payLater    []domain.PayLaterRecord
		enrollments []domain.Enrollment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = s.products.list(gctx, nil); return })
	g.Go(func() (err error) { orders, err = s.orders.list(gctx, nil); return })
	g.Go(func() (err error) { classes, err = s.classes.list(gctx, nil); return })
	g.Go(func() (err error) { coupons, err = s.coupons.list(gctx, nil); return })
	g.Go(func() (err error) { feedback, err = s.feedback.list(gctx, nil); return })
	g.Go(func() (err error) { payLater, err = s.payLater.list(gctx, nil); return })
	g.Go(func() (err error) { enrollments, err = s.enrollments.list(gctx, nil); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format("2006-01-02")
	summary := &domain.DashboardSummary{
		Products:    len(products),
		Orders:      len(orders),
		Classes:     len(classes),
		Enrollments: len(enrollments),
	}

	for _, p := range products {
		if p.IsActive {
			summary.ActiveProducts++
		}
		if p.Stock <= 0 {
			summary.OutOfStock++
		}
	}
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			summary.PendingOrders++
		}
	}
	for _, c := range classes {
		if c.Date >= today {
			summary.UpcomingClasses++
		}
	}
	for _, c := range coupons {
		if c.IsActive && (c.ExpiresAt == nil || c.ExpiresAt.After(now)) {
			summary.ActiveCoupons++
		}
	}
	for _, f := range feedback {
		if !f.IsApproved {
			summary.PendingFeedback++
		}
	}
	for _, p := range payLater {
		switch {
		case p.Status == domain.PayLaterStatusOverdue:
			summary.PayLaterOverdue++
		case p.Status == domain.PayLaterStatusPending && p.DueDate != nil && p.DueDate.Before(now):
			summary.PayLaterOverdue++
		case p.Status == domain.PayLaterStatusPending:
			summary.PayLaterPending++
		}
	}

	return summary, nil
}
