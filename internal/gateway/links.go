package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const linkSelect = "*,collections(name,color,icon)"

// CreateLink saves a new link for the signed-in user.
func (c *Client) CreateLink(ctx context.Context, attrs LinkAttrs) (Link, error) {
	payload := struct {
		LinkAttrs
		UserID string `json:"user_id"`
	}{attrs, c.userID}

	var rows []Link
	err := c.do(ctx, http.MethodPost, "links", nil, []any{payload}, "return=representation", &rows)
	if err != nil {
		return Link{}, fmt.Errorf("creating link: %w", err)
	}
	return one(rows)
}

// ListLinks returns the user's links, newest first, narrowed by the filter.
func (c *Client) ListLinks(ctx context.Context, f Filter) ([]Link, error) {
	q := url.Values{}
	q.Set("select", linkSelect)
	q.Set("user_id", "eq."+c.userID)
	q.Set("order", "created_at.desc")

	if f.CollectionID != "" {
		q.Set("collection_id", "eq."+f.CollectionID)
	}
	if f.Category != "" {
		q.Set("category", "eq."+f.Category)
	}
	if f.FavoritesOnly {
		q.Set("is_favorite", "eq.true")
	}
	if f.Search != "" {
		pat := "*" + f.Search + "*"
		q.Set("or", fmt.Sprintf("(title.ilike.%s,description.ilike.%s,url.ilike.%s)", pat, pat, pat))
	}

	var rows []Link
	if err := c.do(ctx, http.MethodGet, "links", q, nil, "", &rows); err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	return rows, nil
}

// GetLink fetches a single link by id.
func (c *Client) GetLink(ctx context.Context, id string) (Link, error) {
	q := url.Values{}
	q.Set("select", linkSelect)
	q.Set("id", "eq."+id)

	var rows []Link
	if err := c.do(ctx, http.MethodGet, "links", q, nil, "", &rows); err != nil {
		return Link{}, fmt.Errorf("fetching link: %w", err)
	}
	return one(rows)
}

// UpdateLink applies attrs to an existing link and returns the updated row.
func (c *Client) UpdateLink(ctx context.Context, id string, attrs LinkAttrs) (Link, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var rows []Link
	err := c.do(ctx, http.MethodPatch, "links", q, attrs, "return=representation", &rows)
	if err != nil {
		return Link{}, fmt.Errorf("updating link: %w", err)
	}
	return one(rows)
}

// DeleteLink removes a link by id.
func (c *Client) DeleteLink(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var rows []Link
	err := c.do(ctx, http.MethodDelete, "links", q, nil, "return=representation", &rows)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite sets the favorite flag on a link.
func (c *Client) ToggleFavorite(ctx context.Context, id string, favorite bool) (Link, error) {
	return c.UpdateLink(ctx, id, LinkAttrs{IsFavorite: &favorite})
}

// TouchLastAccessed stamps the link's last-accessed time. Best effort: callers
// open the browser regardless of the outcome.
func (c *Client) TouchLastAccessed(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	body := map[string]string{"last_accessed": time.Now().UTC().Format(time.RFC3339)}
	if err := c.do(ctx, http.MethodPatch, "links", q, body, "", nil); err != nil {
		return fmt.Errorf("updating last accessed: %w", err)
	}
	return nil
}
