// ABOUTME: HTTP client for the gateway's /api endpoints
// ABOUTME: Used by the CLI, terminal dashboard and form controllers
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

// ErrNetwork marks failures to reach the gateway or read its reply, as
// opposed to a reply that reports an error.
var ErrNetwork = errors.New("network error")

// APIError is an {error} reply from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.StatusCode)
	}
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *charmlog.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logging.L.With("component", "client"),
	}
}

func (c *Client) ListProperties(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	err := c.do(ctx, http.MethodGet, "/api/properties", nil, &out)
	return out, err
}

func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var out []models.Contact
	err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &out)
	return out, err
}

func (c *Client) ListActivities(ctx context.Context) ([]models.Activity, error) {
	var out []models.Activity
	err := c.do(ctx, http.MethodGet, "/api/activities", nil, &out)
	return out, err
}

func (c *Client) CreateProperty(ctx context.Context, in models.PropertyInput) (models.PropertyResult, error) {
	var out models.PropertyResult
	err := c.do(ctx, http.MethodPost, "/api/properties/create", in, &out)
	return out, err
}

func (c *Client) CreateActivity(ctx context.Context, in models.ActivityInput) (models.ActivityResult, error) {
	var out models.ActivityResult
	err := c.do(ctx, http.MethodPost, "/api/activities/create", in, &out)
	return out, err
}

func (c *Client) CompleteActivity(ctx context.Context, activityID string) (models.ActivityResult, error) {
	var out models.ActivityResult
	err := c.do(ctx, http.MethodPost, "/api/activities/complete", models.CompleteActivityInput{ActivityID: activityID}, &out)
	return out, err
}

func (c *Client) BulkCreateProperties(ctx context.Context, rows []map[string]string) (models.BulkResult, error) {
	var out models.BulkResult
	err := c.do(ctx, http.MethodPost, "/api/properties/bulk-create", models.BulkCreateInput{Data: rows}, &out)
	return out, err
}

// FetchAll lists the three tables concurrently. Any failure fails the whole
// fetch and no partial snapshot is returned.
func (c *Client) FetchAll(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Properties, err = c.ListProperties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Contacts, err = c.ListContacts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Activities, err = c.ListActivities(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close response body failed", "err", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb models.ErrorBody
		if err := json.Unmarshal(raw, &eb); err != nil {
			return fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
		}
		// Message may be empty; callers substitute their own fallback.
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: invalid response: %v", ErrNetwork, err)
	}
	return nil
}
