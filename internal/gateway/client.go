// Package gateway is the client for the hosted Linkverse backend: three
// PostgREST tables (links, collections, profiles) plus the auth endpoint.
// All data operations are scoped to the authenticated user by row-level
// security; the client additionally filters by user id the way the web app
// does.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAuthRequired means no session is active (or the token was rejected).
	ErrAuthRequired = errors.New("not signed in")

	// ErrNotFound means the entity id did not resolve to a row.
	ErrNotFound = errors.New("not found")
)

// Client talks to the remote data gateway.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	log     logrus.FieldLogger

	token  string
	userID string
}

// New creates a gateway client for the given project URL and anon key.
func New(baseURL, anonKey string, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log.WithField("component", "gateway"),
	}
}

// SetSession installs a previously obtained access token and user id.
func (c *Client) SetSession(token, userID string) {
	c.token = token
	c.userID = userID
}

// UserID returns the id of the signed-in user, or "".
func (c *Client) UserID() string { return c.userID }

// Authenticated reports whether a session token is installed.
func (c *Client) Authenticated() bool { return c.token != "" }

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges email/password for an access token and installs it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, _ := json.Marshal(signInRequest{Email: email, Password: password})
	endpoint := c.baseURL + "/auth/v1/token?grant_type=password"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("sign in: invalid credentials: %w", ErrAuthRequired)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sign in: gateway %d: %s", resp.StatusCode, string(b))
	}

	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("sign in: decoding session: %w", err)
	}
	c.SetSession(s.AccessToken, s.User.ID)
	return &s, nil
}

// do issues an authenticated REST request against a table endpoint and
// decodes the JSON response into out (which may be nil for deletes).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prefer string, out any) error {
	if c.token == "" {
		return ErrAuthRequired
	}

	endpoint := c.baseURL + "/rest/v1/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	}).Debug("gateway request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("gateway %d: %w", resp.StatusCode, ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// one unwraps the single-row responses PostgREST returns as one-element arrays.
func one[T any](rows []T) (T, error) {
	if len(rows) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return rows[0], nil
}
