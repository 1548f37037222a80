// ABOUTME: REST client for the remote record store (Airtable API v0)
// ABOUTME: Lists, creates and patches table records with bearer-token auth
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/harperreed/reicrm/logging"
)

// Config is the explicit connection configuration for a Client.
type Config struct {
	APIURL  string
	BaseID  string
	Token   string
	Timeout time.Duration

	// HTTPClient is the transport used underneath the bearer-token layer.
	// Tests point it at an httptest server; nil uses http.DefaultTransport.
	HTTPClient *http.Client
	Logger     *charmlog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *charmlog.Logger
}

// Record is one store row with its fields left undecoded.
type Record struct {
	ID          string          `json:"id,omitempty"`
	Fields      json.RawMessage `json:"fields"`
	CreatedTime string          `json:"createdTime,omitempty"`
}

type envelope struct {
	Records []json.RawMessage `json:"records"`
}

type writeRecord struct {
	ID     string `json:"id,omitempty"`
	Fields any    `json:"fields"`
}

type writeEnvelope struct {
	Records []writeRecord `json:"records"`
}

// ListQuery narrows a list call. Empty fields are not sent.
type ListQuery struct {
	FilterByFormula string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.FilterByFormula != "" {
		v.Set("filterByFormula", q.FilterByFormula)
	}
	return v
}

// NewClient builds a client for one base. The token is attached to every
// request as an Authorization bearer header.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseID == "" {
		return nil, fmt.Errorf("base id is required")
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.airtable.com"
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.Timeout

	logger := cfg.Logger
	if logger == nil {
		logger = logging.L
	}

	return &Client{
		baseURL: apiURL + "/v0/" + url.PathEscape(cfg.BaseID),
		http:    httpClient,
		logger:  logger.With("component", "airtable"),
	}, nil
}

// List fetches the records of table into out, which must point to a slice of
// record structs. Order is whatever the store returns.
func (c *Client) List(ctx context.Context, table string, query ListQuery, out any) error {
	endpoint := c.tableURL(table)
	if q := query.values(); len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode %s records: %w", table, err)
	}
	raw, err := json.Marshal(env.Records)
	if err != nil {
		return err
	}
	if env.Records == nil {
		raw = []byte("[]")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s records: %w", table, err)
	}
	return nil
}

// Create writes exactly one record and decodes the created record into out.
func (c *Client) Create(ctx context.Context, table string, fields any, out any) error {
	return c.write(ctx, http.MethodPost, table, writeRecord{Fields: fields}, out)
}

// Update patches the given fields of one record and decodes the result into out.
func (c *Client) Update(ctx context.Context, table, id string, fields any, out any) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	return c.write(ctx, http.MethodPatch, table, writeRecord{ID: id, Fields: fields}, out)
}

func (c *Client) write(ctx context.Context, method, table string, rec writeRecord, out any) error {
	payload, err := json.Marshal(writeEnvelope{Records: []writeRecord{rec}})
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", table, err)
	}

	body, err := c.do(ctx, method, c.tableURL(table), payload)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	if len(env.Records) == 0 {
		return fmt.Errorf("record store returned no %s record", table)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Records[0], out); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", table, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach record store: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close response body failed", "err", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read record store response: %w", err)
	}

	c.logger.Debug("record store call", "method", method, "url", req.URL.Path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

// EqualsFormula builds a filterByFormula expression matching records whose
// field equals value exactly. Quotes and backslashes in value are escaped.
func EqualsFormula(field, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return fmt.Sprintf(`{%s}="%s"`, field, escaped)
}

// IsAPIError reports whether err carries a store error response.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
