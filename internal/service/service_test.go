package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/imaging"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductService_CreateNormalisesAndRefetches(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathProducts, map[string]interface{}{"id": 1, "name": "Tulip", "originalPrice": "80.00"})

	uploads := NewUploadService(nil, nil, imaging.Options{}, false, zap.NewNop())
	svc := NewProductService(fake.client(t), uploads, zap.NewNop())

	req := &domain.ProductRequest{
		Name:            "  Red Rose Bouquet ",
		Categories:      []string{"flowers/roses", "flowers/roses", "occasions/birthday"},
		OriginalPrice:   1000,
		DiscountPercent: 15,
	}

	result, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Record)
	assert.Equal(t, "Red Rose Bouquet", result.Record.Name)
	assert.Equal(t, domain.Amount(850), result.Record.SellingPrice)
	assert.Equal(t, []string{"flowers/roses", "occasions/birthday"}, result.Record.Categories)
	assert.True(t, result.Record.IsActive)

	assert.False(t, result.Stale)
	assert.Len(t, result.Items, 2)

	last := fake.lastCall()
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, upstream.PathProducts, last.Path)
}

func TestProductService_CreateRejectsUnknownCategory(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathProducts)

	svc := NewProductService(fake.client(t), NewUploadService(nil, nil, imaging.Options{}, false, zap.NewNop()), zap.NewNop())

	_, err := svc.Create(context.Background(), &domain.ProductRequest{
		Name:          "Mystery",
		Categories:    []string{"nope/never"},
		OriginalPrice: 10,
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.mutations())
}

func TestProductService_CreateRejectsNonImageUpload(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathProducts)

	svc := NewProductService(fake.client(t), NewUploadService(nil, nil, imaging.Options{}, false, zap.NewNop()), zap.NewNop())

	_, err := svc.Create(context.Background(), &domain.ProductRequest{
		Name:          "Lily",
		OriginalPrice: 10,
	}, []ImageUpload{{Filename: "notes.txt", Data: strings.NewReader("just some text")}})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.mutations())
}

func TestProductService_ListPassesFilters(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathProducts)

	svc := NewProductService(fake.client(t), nil, zap.NewNop())
	items, err := svc.List(context.Background(), ProductFilter{Category: "flowers/roses", Search: "red"})

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Contains(t, fake.lastCall().Query, "category=flowers%2Froses")
	assert.Contains(t, fake.lastCall().Query, "search=red")
}

func TestCollection_StaleWhenRefetchFails(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathImpacts)
	fake.failList[upstream.PathImpacts] = true

	svc := NewImpactService(fake.client(t), zap.NewNop())
	result, err := svc.Create(context.Background(), &domain.ImpactRequest{Title: "Bouquets delivered", Count: 5000})

	require.NoError(t, err)
	assert.True(t, result.Stale)
	assert.Nil(t, result.Items)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Bouquets delivered", result.Record.Title)
}

func TestCollection_ListErrorNamesTheCollection(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathClasses)
	fake.seed(upstream.PathFeedback)
	fake.failList[upstream.PathClasses] = true
	fake.failList[upstream.PathFeedback] = true

	_, err := newCollection[domain.Class](fake.client(t), upstream.PathClasses, "class", zap.NewNop()).list(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load class list")
	assert.NotContains(t, err.Error(), "classs")

	_, err = newCollection[domain.Feedback](fake.client(t), upstream.PathFeedback, "feedback", zap.NewNop()).list(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load feedback list")
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusOf(err))
}

func TestCollection_NotFoundIsWrapped(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathInstructors)

	svc := NewInstructorService(fake.client(t), nil, zap.NewNop())
	_, err := svc.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, upstream.IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to delete instructor missing")
}

func TestOrderService_UpdateStatus(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathOrders, map[string]interface{}{"id": 5, "customerName": "Asha", "status": "pending"})

	svc := NewOrderService(fake.client(t), zap.NewNop())
	result, err := svc.UpdateStatus(context.Background(), "5", &domain.OrderStatusRequest{Status: domain.OrderStatusShipped})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, result.Record.Status)

	muts := fake.mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, http.MethodPatch, muts[0].Method)
	assert.Equal(t, upstream.PathOrders+"/5/status", muts[0].Path)
	assert.Equal(t, "shipped", muts[0].Body["status"])
}

func TestOrderService_ListRejectsUnknownStatus(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathOrders)

	svc := NewOrderService(fake.client(t), zap.NewNop())
	_, err := svc.List(context.Background(), "lost")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCouponService_CreateUppercasesCode(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathCoupons)

	svc := NewCouponService(fake.client(t), testFormatter(t), zap.NewNop())
	result, err := svc.Create(context.Background(), &domain.CouponRequest{
		Code:          " spring10 ",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "SPRING10", result.Record.Code)
	assert.True(t, result.Record.IsActive)
	assert.Len(t, result.Items, 1)
}

func TestCouponService_Toggle(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathCoupons, map[string]interface{}{
		"id": 3, "code": "WELCOME", "discountType": "fixed", "discountValue": "100", "isActive": true,
	})

	svc := NewCouponService(fake.client(t), testFormatter(t), zap.NewNop())
	result, err := svc.Toggle(context.Background(), "3")

	require.NoError(t, err)
	assert.False(t, result.Record.IsActive)

	muts := fake.mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, http.MethodPut, muts[0].Method)
	assert.Equal(t, "WELCOME", muts[0].Body["code"])
	assert.Equal(t, false, muts[0].Body["isActive"])
}

func TestCouponService_Preview(t *testing.T) {
	svc := NewCouponService(nil, testFormatter(t), zap.NewNop())

	preview := svc.Preview(&domain.CouponPreviewRequest{
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: 500,
		OrderAmount:   300,
	})

	assert.True(t, preview.Eligible)
	assert.Equal(t, 300.0, preview.DiscountAmount)
	assert.Equal(t, 0.0, preview.FinalAmount)
}

func TestClassService_RejectsEndBeforeStart(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathClasses)

	svc := NewClassService(fake.client(t), nil, zap.NewNop())
	_, err := svc.Create(context.Background(), &domain.ClassRequest{
		Title:     "Ikebana Basics",
		Date:      "2026-11-02",
		StartTime: "14:00",
		EndTime:   "13:30",
		Capacity:  10,
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.mutations())
}

func TestClassService_TimeWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{name: "morning to afternoon", start: "9:00", end: "17:30", wantStart: "09:00", wantEnd: "17:30"},
		{name: "padded times", start: "10:00", end: "12:15", wantStart: "10:00", wantEnd: "12:15"},
		{name: "reversed single-digit end", start: "10:00", end: "9:30", wantErr: true},
		{name: "not a time", start: "noon", end: "13:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeUpstream(t)
			fake.seed(upstream.PathClasses)

			svc := NewClassService(fake.client(t), nil, zap.NewNop())
			result, err := svc.Create(context.Background(), &domain.ClassRequest{
				Title:     "Ikebana Basics",
				Date:      "2026-11-02",
				StartTime: tt.start,
				EndTime:   tt.end,
				Capacity:  10,
			}, nil)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Empty(t, fake.mutations())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, result.Record.StartTime)
			assert.Equal(t, tt.wantEnd, result.Record.EndTime)
		})
	}
}

func TestFeedbackService_SetApproved(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathFeedback, map[string]interface{}{"id": 9, "name": "Meera", "rating": 5, "isApproved": false})

	svc := NewFeedbackService(fake.client(t), zap.NewNop())
	result, err := svc.SetApproved(context.Background(), "9", true)

	require.NoError(t, err)
	assert.True(t, result.Record.IsApproved)
	assert.Equal(t, upstream.PathFeedback+"/9/approve", fake.mutations()[0].Path)
}

func TestOfficeTimingService_Update(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.OfficeTimingRequest
		wantErr bool
	}{
		{name: "open day", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "09:00", CloseTime: "18:00"}},
		{name: "closed day clears times", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "09:00", IsClosed: true}},
		{name: "missing close time", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "09:00"}, wantErr: true},
		{name: "close before open", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "18:00", CloseTime: "09:00"}, wantErr: true},
		{name: "single-digit open hour", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "9:00", CloseTime: "17:30"}},
		{name: "single-digit close hour before open", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "10:00", CloseTime: "9:30"}, wantErr: true},
		{name: "equal times", req: domain.OfficeTimingRequest{Day: "Monday", OpenTime: "09:00", CloseTime: "9:00"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeUpstream(t)
			fake.seed(upstream.PathOfficeTiming,
				map[string]interface{}{"id": 2, "day": "Sunday", "isClosed": true},
				map[string]interface{}{"id": 1, "day": "Monday", "openTime": "10:00", "closeTime": "17:00"},
			)

			svc := NewOfficeTimingService(fake.client(t), zap.NewNop())
			req := tt.req
			result, err := svc.Update(context.Background(), "1", &req)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Len(t, result.Items, 2)
			assert.Equal(t, "Monday", result.Items[0].Day)
			if req.IsClosed {
				assert.Empty(t, result.Record.OpenTime)
			}
		})
	}
}

func TestSortByWeekday(t *testing.T) {
	items := []domain.OfficeTiming{{Day: "Holiday"}, {Day: "Friday"}, {Day: "Monday"}, {Day: "Wednesday"}}
	SortByWeekday(items)

	days := make([]string, len(items))
	for i, it := range items {
		days[i] = it.Day
	}
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday", "Holiday"}, days)
}

func TestPayLaterService_MarkPaid(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathPayLater, map[string]interface{}{"id": "pl-1", "customerName": "Ravi", "amount": "1500", "status": "pending"})

	svc := NewPayLaterService(fake.client(t), zap.NewNop())
	paidAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return paidAt }

	result, err := svc.MarkPaid(context.Background(), "pl-1")

	require.NoError(t, err)
	assert.Equal(t, domain.PayLaterStatusPaid, result.Record.Status)
	require.NotNil(t, result.Record.PaidAt)
	assert.True(t, paidAt.Equal(*result.Record.PaidAt))
	assert.Equal(t, upstream.PathPayLater+"/pl-1/status", fake.mutations()[0].Path)
}

func TestListService_ExportCSV(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathSubscribers,
		map[string]interface{}{"id": 1, "email": "a@example.com", "name": "Anu", "subscribedAt": "2026-01-05T10:00:00Z"},
		map[string]interface{}{"id": 2, "email": "b@example.com"},
	)

	svc := NewListService(fake.client(t), testFormatter(t), zap.NewNop())

	var buf bytes.Buffer
	count, err := svc.Export(context.Background(), ListSubscribers, &buf)

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Email,Name,Subscribed At", lines[0])
	assert.Equal(t, "1,a@example.com,Anu,05 Jan 2026 10:00", lines[1])
	assert.Equal(t, "2,b@example.com,,", lines[2])
}

func TestListService_UnknownKind(t *testing.T) {
	_, err := ParseListKind("customers")
	assert.ErrorIs(t, err, ErrUnknownList)

	kind, err := ParseListKind("visitors")
	require.NoError(t, err)
	assert.Equal(t, ListVisitors, kind)
}

func TestListService_DeleteRefetches(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathVisitors,
		map[string]interface{}{"id": 1, "name": "Kiran"},
		map[string]interface{}{"id": 2, "name": "Devi"},
	)

	svc := NewListService(fake.client(t), testFormatter(t), zap.NewNop())
	result, err := svc.Delete(context.Background(), ListVisitors, "1")

	require.NoError(t, err)
	items, ok := result.Items.([]domain.Visitor)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Devi", items[0].Name)
}

func TestDashboardService_Summary(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathProducts,
		map[string]interface{}{"id": 1, "isActive": true, "stock": 4},
		map[string]interface{}{"id": 2, "isActive": false, "stock": 0},
	)
	fake.seed(upstream.PathOrders,
		map[string]interface{}{"id": 1, "status": "pending"},
		map[string]interface{}{"id": 2, "status": "delivered"},
	)
	fake.seed(upstream.PathClasses,
		map[string]interface{}{"id": 1, "date": "2026-05-01"},
		map[string]interface{}{"id": 2, "date": "2026-01-01"},
	)
	fake.seed(upstream.PathCoupons,
		map[string]interface{}{"id": 1, "isActive": true},
		map[string]interface{}{"id": 2, "isActive": true, "expiresAt": "2026-01-01T00:00:00Z"},
	)
	fake.seed(upstream.PathFeedback, map[string]interface{}{"id": 1, "isApproved": false})
	fake.seed(upstream.PathPayLater,
		map[string]interface{}{"id": 1, "status": "pending", "dueDate": "2026-04-01T00:00:00Z"},
		map[string]interface{}{"id": 2, "status": "pending", "dueDate": "2026-02-01T00:00:00Z"},
		map[string]interface{}{"id": 3, "status": "paid"},
	)
	fake.seed(upstream.PathEnrollments, map[string]interface{}{"id": 1, "seats": 2})

	svc := NewDashboardService(fake.client(t), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.DashboardSummary{
		Products:        2,
		ActiveProducts:  1,
		OutOfStock:      1,
		Orders:          2,
		PendingOrders:   1,
		Classes:         2,
		UpcomingClasses: 1,
		ActiveCoupons:   1,
		PendingFeedback: 1,
		PayLaterPending: 1,
		PayLaterOverdue: 1,
		Enrollments:     1,
	}, *summary)
}

func TestDashboardService_SummaryFailsWhenAPanelFails(t *testing.T) {
	fake := newFakeUpstream(t)
	for _, p := range []string{upstream.PathProducts, upstream.PathOrders, upstream.PathClasses, upstream.PathCoupons, upstream.PathFeedback, upstream.PathPayLater, upstream.PathEnrollments} {
		fake.seed(p)
	}
	fake.failList[upstream.PathOrders] = true

	svc := NewDashboardService(fake.client(t), zap.NewNop())
	_, err := svc.Summary(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusOf(err))
}

func TestAuthService_Login(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.seed(upstream.PathLogin)

	svc := NewAuthService(fake.client(t), zap.NewNop())
	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: " Staff@Example.com ", Password: "pw"})

	// the fake backend echoes the body with an id and no token
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "staff@example.com", fake.lastCall().Body["email"])
}
