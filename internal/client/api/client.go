// Package api implements the HTTP client for the prodshot server: auth,
// gallery listing, image upload, download, and deletion. All authenticated
// calls send the session token as a bearer header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prodshot/prodshot/internal/common"
)

// User is the account shape returned by the server.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult bundles the session token with the user it belongs to.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ImageRecord is one gallery entry. URL is the server-relative retrieval
// path and always requires the bearer token.
type ImageRecord struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

// Client talks to the prodshot server. The zero value is not usable; use
// NewClient. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the session token used for authenticated calls. An
// empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// errorBody is the JSON error envelope the server uses for every failure.
type errorBody struct {
	Error string `json:"error"`
}

// checkStatus maps HTTP failure statuses onto the shared error taxonomy,
// preserving the server's message where one was sent.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorAlreadyExists
	default:
		sentinel = common.ErrorInternal
	}

	if body.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, body.Error)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON performs the request and decodes a JSON response into out (when
// out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", method, path, err)
		}
	}
	return nil
}

// Ping checks server reachability via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates and returns the session token plus the user. The
// token is not installed automatically; callers decide when to SetToken.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SaveImages uploads a batch of base64 payloads to the gallery.
func (c *Client) SaveImages(ctx context.Context, payloads []string) error {
	body := map[string][]string{"images": payloads}
	return c.doJSON(ctx, http.MethodPost, "/api/images", body, nil)
}

// ListImages returns the gallery newest first.
func (c *Client) ListImages(ctx context.Context) ([]ImageRecord, error) {
	var records []ImageRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/images", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchImage downloads the raw bytes behind a record's URL.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// DeleteImage removes one gallery record and its stored image.
func (c *Client) DeleteImage(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/images/%d", id), nil, nil)
}
