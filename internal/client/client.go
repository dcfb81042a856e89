// Package client is a typed HTTP client for the Inkwell API, plus the
// client-side state holders that sit on top of it.
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
	"sync"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response decoded from the standard error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to one API base URL, e.g. http://localhost:8375/api.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e models.ErrorResponse
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
			if e.Error == "" {
				e.Error = http.StatusText(resp.StatusCode)
			}
		}
		return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and keeps its session token.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// Login authenticates and keeps the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", service.LoginInput{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// Logout revokes the session server-side and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &messageResponse{})
	c.setToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in service.UpdateProfileInput) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBlogs fetches one page. Zero values are omitted from the query.
func (c *Client) ListBlogs(ctx context.Context, in service.ListBlogsInput) (*service.BlogPage, error) {
	q := url.Values{}
	if in.PageNumber > 0 {
		q.Set("pageNumber", strconv.Itoa(in.PageNumber))
	}
	if in.Language != "" {
		q.Set("language", in.Language)
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	path := "/blogs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out service.BlogPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodGet, blogPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBlog(ctx context.Context, in service.CreateBlogInput) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodPost, "/blogs", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id uint, in service.UpdateBlogInput) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodPut, blogPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, blogPath(id), nil, &messageResponse{})
}

// ToggleLike flips the caller's like and returns the server's like set.
func (c *Client) ToggleLike(ctx context.Context, blogID uint) ([]uint, error) {
	out := []uint{}
	if err := c.do(ctx, http.MethodPut, blogPath(blogID)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListComments returns the flat list, newest first.
func (c *Client) ListComments(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	out := []*models.Comment{}
	if err := c.do(ctx, http.MethodGet, blogPath(blogID)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, blogID uint, in service.CreateCommentInput) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, http.MethodPost, blogPath(blogID)+"/comments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, blogID, commentID uint) error {
	path := fmt.Sprintf("%s/comments/%d", blogPath(blogID), commentID)
	return c.do(ctx, http.MethodDelete, path, nil, &messageResponse{})
}

func blogPath(id uint) string {
	return "/blogs/" + strconv.FormatUint(uint64(id), 10)
}
