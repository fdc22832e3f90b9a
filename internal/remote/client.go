// Package remote implements the collaborator contracts against the HTTP API.
package remote

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

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
	"golang.org/x/oauth2"
)

// Config holds the remote collaborator settings.
type Config struct {
	// HTTPClient overrides the client built from Token and Timeout.
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
}

// Client talks to the spice-admin HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
}

// Ensure we implement the interface.
var _ service.Backend = (*Client)(nil)

// NewClient creates a remote client. The bearer token is attached by an
// oauth2 transport; an empty token sends unauthenticated requests.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("%w: remote url %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		var transport http.RoundTripper = http.DefaultTransport
		if cfg.Token != "" {
			transport = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
				Base:   http.DefaultTransport,
			}
		}
		httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}

	return &Client{http: httpClient, baseURL: base}, nil
}

// Groups returns the category group resource.
func (c *Client) Groups() service.Groups {
	return resource[model.CategoryGroup]{c: c, path: "/api/groups"}
}

// Categories returns the category resource.
func (c *Client) Categories() service.Categories {
	return resource[model.Category]{c: c, path: "/api/categories"}
}

// Currencies returns the currency resource.
func (c *Client) Currencies() service.Currencies {
	return currencyResource{resource[model.Currency]{c: c, path: "/api/currencies"}}
}

// Identity returns the "who am I" service.
func (c *Client) Identity() service.IdentityService { return c }

// WhoAmI asks the API which identity the credential maps to.
func (c *Client) WhoAmI(ctx context.Context) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &identity)
	return identity, err
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(raw, &body) != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = common.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrForbidden
	case http.StatusNotFound:
		sentinel = common.ErrNotFound
	case http.StatusConflict:
		sentinel = common.ErrDuplicateEntry
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = common.ErrInvalidInput
	default:
		sentinel = errors.New(http.StatusText(resp.StatusCode))
	}
	return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Message: body.Error, Err: sentinel}
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Err     error
	Method  string
	Path    string
	Message string
	Status  int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %v", e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r resource[T]) Create(ctx context.Context, record T) (T, error) {
	var created T
	err := r.c.do(ctx, http.MethodPost, r.path, record, &created)
	return created, err
}

func (r resource[T]) Update(ctx context.Context, id string, record T) (T, error) {
	var updated T
	err := r.c.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), record, &updated)
	return updated, err
}

func (r resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
}

// currencyResource omits the immutable code from updates.
type currencyResource struct {
	resource[model.Currency]
}

func (r currencyResource) Update(ctx context.Context, id string, record model.Currency) (model.Currency, error) {
	record.Code = ""
	record.CreatedAt = time.Time{}
	return r.resource.Update(ctx, id, record)
}
