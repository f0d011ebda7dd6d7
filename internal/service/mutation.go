package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// MutationResult is the outcome of a create, update or delete: the affected record and the
// collection as re-fetched afterwards.
type MutationResult[T any] struct {
	Record *T
	Items  []T
	// Stale is set when the mutation succeeded but the re-fetch failed. Items is nil then.
	Stale bool
}

// collection wraps an upstream resource with the console's error wrapping and the
// re-fetch that follows every mutation.
type collection[T any] struct {
	res    *upstream.Resource[T]
	noun   string
	logger *zap.Logger
}

func newCollection[T any](client *upstream.Client, path, noun string, logger *zap.Logger) collection[T] {
	return collection[T]{
		res:    upstream.NewResource[T](client, path),
		noun:   noun,
		logger: logger,
	}
}

func (c collection[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	items, err := c.res.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s list: %w", c.noun, err)
	}
	return items, nil
}

func (c collection[T]) get(ctx context.Context, id domain.ID) (*T, error) {
	item, err := c.res.Get(ctx, id)
	if err != nil {
		return nil, c.wrap("get", id, err)
	}
	return item, nil
}

func (c collection[T]) create(ctx context.Context, payload interface{}) (*MutationResult[T], error) {
	record, err := c.res.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", c.noun, err)
	}
	return c.refresh(ctx, record), nil
}

func (c collection[T]) update(ctx context.Context, id domain.ID, payload interface{}) (*MutationResult[T], error) {
	record, err := c.res.Update(ctx, id, payload)
	if err != nil {
		return nil, c.wrap("update", id, err)
	}
	return c.refresh(ctx, record), nil
}

func (c collection[T]) action(ctx context.Context, id domain.ID, verb string, payload interface{}) (*MutationResult[T], error) {
	record, err := c.res.Action(ctx, id, verb, payload)
	if err != nil {
		return nil, c.wrap(verb, id, err)
	}
	return c.refresh(ctx, record), nil
}

func (c collection[T]) delete(ctx context.Context, id domain.ID) (*MutationResult[T], error) {
	if err := c.res.Delete(ctx, id); err != nil {
		return nil, c.wrap("delete", id, err)
	}
	return c.refresh(ctx, nil), nil
}

// refresh re-fetches the full collection after a successful mutation
func (c collection[T]) refresh(ctx context.Context, record *T) *MutationResult[T] {
	result := &MutationResult[T]{Record: record}

	items, err := c.res.List(ctx, nil)
	if err != nil {
		c.logger.Warn("re-fetch after mutation failed",
			zap.String("collection", c.res.Path()),
			zap.Error(err))
		result.Stale = true
		return result
	}

	result.Items = items
	return result
}

// wrap adds ErrNotFound to upstream 404s so handlers can map them without knowing the transport
func (c collection[T]) wrap(op string, id domain.ID, err error) error {
	if upstream.IsNotFound(err) {
		return fmt.Errorf("failed to %s %s %s: %w: %w", op, c.noun, id, ErrNotFound, err)
	}
	return fmt.Errorf("failed to %s %s %s: %w", op, c.noun, id, err)
}
