package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetProfile fetches the signed-in user's profile row.
func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	q := url.Values{}
	q.Set("id", "eq."+c.userID)

	var rows []Profile
	if err := c.do(ctx, http.MethodGet, "profiles", q, nil, "", &rows); err != nil {
		return Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return one(rows)
}

// UpdateProfile applies attrs to the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, attrs ProfileAttrs) (Profile, error) {
	q := url.Values{}
	q.Set("id", "eq."+c.userID)

	var rows []Profile
	err := c.do(ctx, http.MethodPatch, "profiles", q, attrs, "return=representation", &rows)
	if err != nil {
		return Profile{}, fmt.Errorf("updating profile: %w", err)
	}
	return one(rows)
}
