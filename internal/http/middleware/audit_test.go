package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/http/middleware"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAuditLogger struct {
	entries chan service.LogEntry
}

func newRecordingAuditLogger() *recordingAuditLogger {
	return &recordingAuditLogger{entries: make(chan service.LogEntry, 10)}
}

func (l *recordingAuditLogger) Log(ctx context.Context, r *http.Request, entry service.LogEntry) error {
	l.entries <- entry
	return nil
}

func (l *recordingAuditLogger) next(t *testing.T) service.LogEntry {
	t.Helper()
	select {
	case e := <-l.entries:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no audit entry recorded")
		return service.LogEntry{}
	}
}

func (l *recordingAuditLogger) none(t *testing.T) {
	t.Helper()
	select {
	case e := <-l.entries:
		t.Fatalf("unexpected audit entry: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func auditedRouter(al middleware.AuditLogger, status int) http.Handler {
	m := middleware.NewAuditMiddleware(al, nil, zap.NewNop())
	r := chi.NewRouter()
	r.Use(m.Audit)
	h := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(status) }
	r.Post("/api/v1/products", h)
	r.Put("/api/v1/products/{id}", h)
	r.Delete("/api/v1/coupons/{id}", h)
	r.Post("/api/v1/coupons/{id}/toggle", h)
	r.Get("/api/v1/products", h)
	r.Post("/api/v1/tools/images/encode", h)
	r.Delete("/api/v1/lists/{kind}/{id}", h)
	return r
}

func TestAudit_CreateRedactsFields(t *testing.T) {
	al := newRecordingAuditLogger()
	router := auditedRouter(al, http.StatusCreated)

	body := `{"name":"Red Rose","password":"hunter2","images":["data:image/png;base64,AAA"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := al.next(t)
	assert.Equal(t, domain.AuditActionCreate, entry.Action)
	assert.Equal(t, "Product", entry.EntityType)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)

	values, ok := entry.NewValues.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Red Rose", values["name"])
	assert.NotContains(t, values, "password")
	assert.NotContains(t, values, "images")
}

func TestAudit_EntityIDFromRoute(t *testing.T) {
	al := newRecordingAuditLogger()
	router := auditedRouter(al, http.StatusOK)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/coupons/9", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := al.next(t)
	assert.Equal(t, domain.AuditActionDelete, entry.Action)
	assert.Equal(t, "Coupon", entry.EntityType)
	assert.Equal(t, "9", entry.EntityID)
}

func TestAudit_ActionOnExistingRecordIsUpdate(t *testing.T) {
	al := newRecordingAuditLogger()
	router := auditedRouter(al, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/12/toggle", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := al.next(t)
	assert.Equal(t, domain.AuditActionUpdate, entry.Action)
	assert.Equal(t, "Coupon", entry.EntityType)
	assert.Equal(t, "12", entry.EntityID)
}

func TestAudit_ListEntryUsesKind(t *testing.T) {
	al := newRecordingAuditLogger()
	router := auditedRouter(al, http.StatusOK)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/lists/visitors/4", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := al.next(t)
	assert.Equal(t, "Visitor", entry.EntityType)
	assert.Equal(t, "4", entry.EntityID)
}

func TestAudit_Skipped(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"failed mutation", http.MethodPut, "/api/v1/products/1", http.StatusBadRequest},
		{"read", http.MethodGet, "/api/v1/products", http.StatusOK},
		{"tools", http.MethodPost, "/api/v1/tools/images/encode", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := newRecordingAuditLogger()
			router := auditedRouter(al, tt.status)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			al.none(t)
		})
	}
}

func TestAudit_LargeBodyReachesHandlerButIsNotStored(t *testing.T) {
	al := newRecordingAuditLogger()
	m := middleware.NewAuditMiddleware(al, nil, zap.NewNop())

	body := `{"name":"` + strings.Repeat("x", 256<<10) + `"}`
	var received string
	r := chi.NewRouter()
	r.Use(m.Audit)
	r.Post("/api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(b)
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, body, received)
	entry := al.next(t)
	assert.Equal(t, domain.AuditActionCreate, entry.Action)
	assert.Nil(t, entry.NewValues)
}

// slowAuditLogger holds each entry until released
type slowAuditLogger struct {
	release chan struct{}
	mu      sync.Mutex
	written int
}

func (l *slowAuditLogger) Log(ctx context.Context, r *http.Request, entry service.LogEntry) error {
	<-l.release
	l.mu.Lock()
	l.written++
	l.mu.Unlock()
	return nil
}

func TestAudit_WaitDrainsPendingEntries(t *testing.T) {
	al := &slowAuditLogger{release: make(chan struct{})}
	m := middleware.NewAuditMiddleware(al, nil, zap.NewNop())
	r := chi.NewRouter()
	r.Use(m.Audit)
	r.Delete("/api/v1/coupons/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/coupons/7", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Wait(ctx), context.DeadlineExceeded)

	close(al.release)
	require.NoError(t, m.Wait(context.Background()))
	al.mu.Lock()
	defer al.mu.Unlock()
	assert.Equal(t, 1, al.written)
}
