package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bloomhouse/admin-console/internal/domain"
)

// Upstream collection paths. These are defined by the server.
const (
	PathProducts     = "/api/admin/products"
	PathOrders       = "/api/admin/orders"
	PathClasses      = "/api/admin/AdminClasses"
	PathCoupons      = "/api/admin/coupons"
	PathEventPricing = "/api/admin/event-pricing"
	PathImpacts      = "/api/impacts"
	PathInstructors  = "/api/instructors"
	PathFeedback     = "/api/admin/feedback"
	PathOfficeTiming = "/api/office-timings"
	PathPayLater     = "/api/admin/pay-later"
	PathEnrollments  = "/api/admin/enrollments"
	PathVisitors     = "/api/admin/visitors"
	PathSubscribers  = "/api/admin/subscribers"
	PathLogin        = "/api/admin/login"
)

// Resource is a typed view of one upstream collection
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to a record type
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id domain.ID) string {
	return r.path + "/" + url.PathEscape(id.String())
}

// List fetches the whole collection
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, query, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record
func (r *Resource[T]) Get(ctx context.Context, id domain.ID) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts a new record and returns what the upstream echoed back
func (r *Resource[T]) Create(ctx context.Context, payload interface{}) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPost, r.path, nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces a record
func (r *Resource[T]) Update(ctx context.Context, id domain.ID, payload interface{}) (*T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Action patches a sub-resource of a record, e.g. PATCH /orders/{id}/status
func (r *Resource[T]) Action(ctx context.Context, id domain.ID, action string, payload interface{}) (*T, error) {
	var item T
	path := r.itemPath(id)
	if action != "" {
		path += "/" + action
	}
	if err := r.client.Do(ctx, http.MethodPatch, path, nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a record
func (r *Resource[T]) Delete(ctx context.Context, id domain.ID) error {
	return r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}
