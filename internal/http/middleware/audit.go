package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxAuditBody caps how much of a JSON request body is kept for the audit trail
const maxAuditBody = 64 << 10

// AuditConfig decides which requests reach the audit trail
type AuditConfig struct {
	// IgnorePrefixes are path prefixes never recorded
	IgnorePrefixes []string
	// Redact lists top-level body fields dropped before a body is stored
	Redact []string
}

// DefaultAuditConfig records staff mutations, leaving out sign-in, stateless tools and the
// coupon preview, and drops credentials and encoded images from stored bodies.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		IgnorePrefixes: []string{
			"/health",
			"/swagger",
			"/api/v1/auth/login",
			"/api/v1/tools",
			"/api/v1/coupons/preview",
		},
		Redact: []string{"password", "secret", "token", "apiKey", "image", "images"},
	}
}

// AuditLogger records an audit entry
type AuditLogger interface {
	Log(ctx context.Context, r *http.Request, entry service.LogEntry) error
}

// AuditMiddleware writes one audit entry per successful mutation, off the request path
type AuditMiddleware struct {
	sink    AuditLogger
	cfg     *AuditConfig
	logger  *zap.Logger
	pending sync.WaitGroup
}

func NewAuditMiddleware(sink AuditLogger, cfg *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if cfg == nil {
		cfg = DefaultAuditConfig()
	}
	return &AuditMiddleware{sink: sink, cfg: cfg, logger: logger}
}

func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.wants(r) {
			next.ServeHTTP(w, r)
			return
		}

		// multipart bodies hold image files; only their "data" field is kept, after the handler parsed it
		var body []byte
		if r.Body != nil && r.Method != http.MethodDelete && hasContentType(r, "application/json") {
			body = peekBody(r)
		}

		rec := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.statusCode < 200 || rec.statusCode > 299 {
			return
		}
		if r.MultipartForm != nil {
			if data := r.MultipartForm.Value["data"]; len(data) > 0 {
				body = []byte(data[0])
			}
		}

		// the route context is recycled once this handler returns
		target := resolveTarget(r)
		if target.action == "" {
			return
		}
		clone := r.Clone(context.WithoutCancel(r.Context()))
		m.pending.Add(1)
		go func() {
			defer m.pending.Done()
			m.record(clone, rec.statusCode, target, body)
		}()
	})
}

// Wait blocks until entries already handed off are written, or ctx ends
func (m *AuditMiddleware) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// peekBody reads at most maxAuditBody+1 bytes and puts them back in front of the rest of the
// body. It returns nil when the body is too big to be kept.
func peekBody(r *http.Request) []byte {
	head, err := io.ReadAll(io.LimitReader(r.Body, maxAuditBody+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil || len(head) > maxAuditBody {
		return nil
	}
	return head
}

func (m *AuditMiddleware) wants(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return !slices.ContainsFunc(m.cfg.IgnorePrefixes, func(p string) bool {
		return strings.HasPrefix(r.URL.Path, p)
	})
}

func (m *AuditMiddleware) record(r *http.Request, status int, target auditTarget, body []byte) {
	if m.sink == nil {
		return
	}
	err := m.sink.Log(r.Context(), r, service.LogEntry{
		Action:     target.action,
		EntityType: target.entityType,
		EntityID:   target.entityID,
		StatusCode: status,
		NewValues:  m.scrub(body),
	})
	if err != nil {
		m.logger.Warn("audit entry not written",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

// scrub decodes a JSON object body and drops redacted fields
func (m *AuditMiddleware) scrub(body []byte) any {
	if len(body) == 0 || len(body) > maxAuditBody {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	for _, name := range m.cfg.Redact {
		delete(fields, name)
	}
	return fields
}

// auditTarget is what a request did and to which record
type auditTarget struct {
	action     domain.AuditAction
	entityType string
	entityID   string
}

// panelEntities maps route segments (and list kinds) to audited entity types
var panelEntities = map[string]string{
	"products":      "Product",
	"orders":        "Order",
	"classes":       "Class",
	"instructors":   "Instructor",
	"feedback":      "Feedback",
	"coupons":       "Coupon",
	"event-pricing": "EventPricing",
	"office-hours":  "OfficeTiming",
	"impacts":       "Impact",
	"pay-later":     "PayLater",
	"enrollments":   "Enrollment",
	"visitors":      "Visitor",
	"subscribers":   "Subscriber",
	"uploads":       "Upload",
}

// resolveTarget reads the matched route. A POST against an existing record (toggle, approve,
// mark paid) is an update.
func resolveTarget(r *http.Request) auditTarget {
	segments := r.URL.Path
	var t auditTarget
	if rc := chi.RouteContext(r.Context()); rc != nil {
		t.entityID = rc.URLParam("id")
		if kind := rc.URLParam("kind"); kind != "" {
			segments = kind
		} else if p := rc.RoutePattern(); p != "" {
			segments = p
		}
	}

	t.entityType = "Unknown"
	for _, seg := range strings.Split(strings.Trim(segments, "/"), "/") {
		if name, ok := panelEntities[seg]; ok {
			t.entityType = name
			break
		}
	}

	switch r.Method {
	case http.MethodPost:
		t.action = domain.AuditActionCreate
		if t.entityID != "" {
			t.action = domain.AuditActionUpdate
		}
	case http.MethodPut, http.MethodPatch:
		t.action = domain.AuditActionUpdate
	case http.MethodDelete:
		t.action = domain.AuditActionDelete
	}
	return t
}

func hasContentType(r *http.Request, mediaType string) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), mediaType)
}
