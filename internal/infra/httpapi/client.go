// Package httpapi is the real-mode transport: JSON over HTTP with
// bearer-token auth against a configured base URL.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

// Config holds transport settings.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// TokenSource supplies the current bearer token. An empty token means
// the request goes out unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Client speaks the task API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient builds a transport client. tokens may be nil for
// unauthenticated use.
func NewClient(cfg Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
	}
}

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// do issues one request and decodes the response into out. Statuses
// map onto the typed error taxonomy; transport failures and timeouts
// come back as NetworkError so the retry engine classifies them.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: method + " " + path, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, path, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusError(status int, path string, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	msg := body.Message
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}

	switch {
	case status == http.StatusUnauthorized:
		if msg == "" {
			msg = "unauthorized"
		}
		return &domain.AuthenticationError{Reason: msg}
	case status == http.StatusNotFound:
		return &domain.NotFoundError{Resource: "resource", ID: path}
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		fields := body.Errors
		if len(fields) == 0 {
			fields = map[string]string{"request": msg}
		}
		return &domain.ValidationError{Fields: fields}
	default:
		return &domain.ServerError{Status: status, Message: msg}
	}
}

// --- auth ---

func (c *Client) SendCode(ctx context.Context, phone string) (*domain.SendCodeResult, error) {
	var out domain.SendCodeResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/send-code", nil,
		map[string]string{"phone": phone}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyCode(ctx context.Context, phone, code string) (*domain.VerifyCodeResult, error) {
	var out domain.VerifyCodeResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify", nil,
		map[string]string{"phone": phone, "code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a fresh session. It is
// deliberately outside the retry engine.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var out domain.Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", nil,
		map[string]string{"refreshToken": refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) (*domain.Ack, error) {
	var out domain.Ack
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- tasks ---

func (c *Client) ListTasks(ctx context.Context, q domain.TaskQuery) (*domain.TaskPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", fmt.Sprint(q.Limit))
	}
	if q.Priority != "" {
		query.Set("priority", string(q.Priority))
	}
	if q.Completed != nil {
		query.Set("completed", fmt.Sprint(*q.Completed))
	}
	if q.CategoryID != "" {
		query.Set("categoryId", q.CategoryID)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Due != "" {
		query.Set("due", string(q.Due))
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		query.Set("sortOrder", string(q.SortOrder))
	}

	var out domain.TaskPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, p domain.CreateTaskParams) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, p domain.UpdateTaskParams) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+id, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) (*domain.Ack, error) {
	var out domain.Ack
	if err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BulkOperation(
	ctx context.Context,
	op domain.BulkOp,
	ids []string,
) (*domain.BulkResult, error) {
	var out domain.BulkResult
	body := map[string]any{"operation": op, "taskIds": ids}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks/bulk", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchTasks(ctx context.Context, q string, fuzzy bool) (*domain.SearchResult, error) {
	query := url.Values{"q": {q}}
	if fuzzy {
		query.Set("fuzzy", "true")
	}
	var out domain.SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/search", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analytics(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	if err := c.do(ctx, http.MethodGet, "/api/v1/analytics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- categories ---

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, p domain.CategoryParams) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPost, "/api/v1/categories", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(
	ctx context.Context,
	id string,
	p domain.CategoryParams,
) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPut, "/api/v1/categories/"+id, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) (*domain.Ack, error) {
	var out domain.Ack
	if err := c.do(ctx, http.MethodDelete, "/api/v1/categories/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- feedback and settings ---

func (c *Client) SubmitFeedback(ctx context.Context, p domain.FeedbackParams) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := c.do(ctx, http.MethodPost, "/api/v1/feedback", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var out struct {
		Feedback []domain.Feedback `json:"feedback"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/feedback", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Feedback, nil
}

func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, p domain.SettingsParams) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.do(ctx, http.MethodPatch, "/api/v1/settings", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
