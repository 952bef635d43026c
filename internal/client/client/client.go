package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// apiPrefix is where the server mounts its JSON API.
const apiPrefix = "/api"

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server at serverURL, e.g.
// "http://127.0.0.1:8080". timeout bounds each request.
func NewHTTPClient(serverURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type taskListResponse struct {
	Count int           `json:"count"`
	Tasks []models.Task `json:"tasks"`
}

type taskResponse struct {
	Task models.Task `json:"task"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

// Logout forgets the token.
func (c *HTTPClient) Logout() {
	c.SetToken("")
}

// LoggedIn reports whether a token is held.
func (c *HTTPClient) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var resp taskListResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// Ping checks that the server answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// SetToken installs a token, e.g. one restored from a saved session.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, or "".
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends a JSON request under the API prefix and decodes a 2xx body into
// out. out may be nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
