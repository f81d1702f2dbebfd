package solarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client is an HTTP client for the solar backend API. It holds no credentials
// of its own: privileged calls take the visitor's bearer token per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new solar backend API client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login authenticates a visitor. Credential failures (400/401) come back as
// an *APIError carrying the backend's message for inline display; no session
// state is touched here.
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, parseMessageError(status, body)
	}

	var result LoginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &result, nil
}

// ListUsers retrieves all users. Admin only; doubles as the privilege
// re-verification probe for the admin console.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/auth/list-users", token, nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, parseError(status, body)
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	return users, nil
}

// CreateUser creates a dashboard user. Admin only.
func (c *Client) CreateUser(ctx context.Context, token string, req *CreateUserRequest) (*MessageResponse, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/api/auth/create-user", token, req)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, parseError(status, body)
	}

	var result MessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode create-user response: %w", err)
	}
	return &result, nil
}

// DeleteUser removes a user by username. Admin only.
func (c *Client) DeleteUser(ctx context.Context, token, username string) error {
	path := "/api/auth/delete-user/" + url.PathEscape(username)
	body, status, err := c.do(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK && status != http.StatusNoContent {
		return parseError(status, body)
	}
	return nil
}

// ListStations retrieves all stations with their opening dates.
// Public on the backend; no token needed.
func (c *Client) ListStations(ctx context.Context) ([]Station, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/stations", "", nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, parseError(status, body)
	}

	var stations []Station
	if err := json.Unmarshal(body, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode station list: %w", err)
	}
	return stations, nil
}

// SetOpeningDate updates or clears a station's opening date. Admin only.
func (c *Client) SetOpeningDate(ctx context.Context, token, stationKey string, openingDate *string) error {
	path := fmt.Sprintf("/api/stations/%s/opening-date", url.PathEscape(stationKey))
	body, status, err := c.do(ctx, http.MethodPatch, path, token, &SetOpeningDateRequest{OpeningDate: openingDate})
	if err != nil {
		return err
	}

	if status != http.StatusOK && status != http.StatusNoContent {
		return parseError(status, body)
	}
	return nil
}

// KPIToday retrieves today's KPI figures for a source key.
func (c *Client) KPIToday(ctx context.Context, sourceKey string) (*KPI, error) {
	path := fmt.Sprintf("/api/kpi/%s/today", url.PathEscape(sourceKey))
	return c.getKPI(ctx, path)
}

// KPIByDate retrieves KPI figures for a source key on a given day.
// date is YYYY-MM-DD.
func (c *Client) KPIByDate(ctx context.Context, sourceKey, date string) (*KPI, error) {
	path := fmt.Sprintf("/api/kpi/%s/by-date?date=%s", url.PathEscape(sourceKey), url.QueryEscape(date))
	return c.getKPI(ctx, path)
}

// SeafdecLatest retrieves the latest KPI figures from the legacy SEAFDEC feed.
func (c *Client) SeafdecLatest(ctx context.Context) (*KPI, error) {
	return c.getKPI(ctx, "/api/seafdec/kpi/latest")
}

// SeafdecByDate retrieves SEAFDEC KPI figures for a given day.
func (c *Client) SeafdecByDate(ctx context.Context, date string) (*KPI, error) {
	return c.getKPI(ctx, "/api/seafdec/kpi/"+url.PathEscape(date))
}

func (c *Client) getKPI(ctx context.Context, path string) (*KPI, error) {
	body, status, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, parseError(status, body)
	}

	var kpi KPI
	if err := json.Unmarshal(body, &kpi); err != nil {
		return nil, fmt.Errorf("failed to decode KPI payload: %w", err)
	}
	return &kpi, nil
}

// do performs one request and returns the raw body and status. Network and
// encoding failures surface as errors; HTTP error statuses do not - callers
// decide what each status means for their endpoint.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		//nolint:errcheck
		resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// parseError maps backend error responses onto the sentinel errors the guard
// branches on, falling back to a structured APIError.
func parseError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return parseMessageError(statusCode, body)
	}
}

// parseMessageError builds an APIError from a `{message}` body, with a
// generic fallback when the body is not structured.
func parseMessageError(statusCode int, body []byte) error {
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{StatusCode: statusCode, Message: msg.Message}
	}
	return &APIError{StatusCode: statusCode, Message: fmt.Sprintf("request failed (status %d)", statusCode)}
}
