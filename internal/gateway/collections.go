package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateCollection saves a new collection for the signed-in user.
func (c *Client) CreateCollection(ctx context.Context, attrs CollectionAttrs) (Collection, error) {
	payload := struct {
		CollectionAttrs
		UserID string `json:"user_id"`
	}{attrs, c.userID}

	var rows []Collection
	err := c.do(ctx, http.MethodPost, "collections", nil, []any{payload}, "return=representation", &rows)
	if err != nil {
		return Collection{}, fmt.Errorf("creating collection: %w", err)
	}
	return one(rows)
}

// ListCollections returns the user's collections, newest first.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+c.userID)
	q.Set("order", "created_at.desc")

	var rows []Collection
	if err := c.do(ctx, http.MethodGet, "collections", q, nil, "", &rows); err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return rows, nil
}

// GetCollection fetches a single collection by id.
func (c *Client) GetCollection(ctx context.Context, id string) (Collection, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var rows []Collection
	if err := c.do(ctx, http.MethodGet, "collections", q, nil, "", &rows); err != nil {
		return Collection{}, fmt.Errorf("fetching collection: %w", err)
	}
	return one(rows)
}

// UpdateCollection applies attrs to an existing collection.
func (c *Client) UpdateCollection(ctx context.Context, id string, attrs CollectionAttrs) (Collection, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var rows []Collection
	err := c.do(ctx, http.MethodPatch, "collections", q, attrs, "return=representation", &rows)
	if err != nil {
		return Collection{}, fmt.Errorf("updating collection: %w", err)
	}
	return one(rows)
}

// DeleteCollection removes a collection by id. Links keep their collection_id
// until the backend cascade clears it; callers invalidate the cache so the
// next read reflects whatever the backend decided.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var rows []Collection
	err := c.do(ctx, http.MethodDelete, "collections", q, nil, "return=representation", &rows)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
