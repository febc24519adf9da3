// Package client is a Go client for the portal REST API. It unwraps the
// response envelope and turns error envelopes into *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	companyID  string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithCompany selects the company for callers that may act on several,
// such as super admins.
func WithCompany(companyID string) Option {
	return func(c *Client) {
		c.companyID = companyID
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("api error [%d] %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error [%d] %s: %s %v", e.Status, e.Code, e.Message, e.Details)
}

// Page is one window of a paginated list.
type Page[T any] struct {
	Query pagination.Query
	Items []T
	Meta  pagination.Meta
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *pagination.Meta `json:"meta"`
}

// Session returns the caller's role, landing path and permissions.
func (c *Client) Session(ctx context.Context) (user.SessionResponse, error) {
	var out user.SessionResponse
	_, err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, nil, &out)
	return out, err
}

func (c *Client) WorkingDays(ctx context.Context, req leave.WorkingDaysRequest) (leave.WorkingDaysResponse, error) {
	var out leave.WorkingDaysResponse
	_, err := c.do(ctx, http.MethodPost, "/api/v1/leave/working-days", nil, req, &out)
	return out, err
}

// ListHolidays fetches one page of the company holiday calendar. A nil year
// lists every year.
func (c *Client) ListHolidays(ctx context.Context, q pagination.Query, year *int) (Page[holiday.HolidayResponse], error) {
	values := q.Values()
	if year != nil {
		values.Set("year", strconv.Itoa(*year))
	}
	return list[holiday.HolidayResponse](ctx, c, "/api/v1/holidays", q, values)
}

// ListEmployees fetches one page of the employee directory. An empty status
// lists every status.
func (c *Client) ListEmployees(ctx context.Context, q pagination.Query, status string) (Page[employee.EmployeeResponse], error) {
	values := q.Values()
	if status != "" {
		values.Set("status", status)
	}
	return list[employee.EmployeeResponse](ctx, c, "/api/v1/employees", q, values)
}

func list[T any](ctx context.Context, c *Client, path string, q pagination.Query, values url.Values) (Page[T], error) {
	page := Page[T]{Query: q}
	meta, err := c.do(ctx, http.MethodGet, path, values, nil, &page.Items)
	if err != nil {
		return page, err
	}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*pagination.Meta, error) {
	if c.companyID != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("company_id", c.companyID)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: strings.TrimSpace(string(raw))}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Meta, nil
}
