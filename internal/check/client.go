// Package check is a black-box contract checker for a running posts API.
// It drives the HTTP surface the way an external consumer would and verifies
// the responses, without reaching into the server's storage.
package check

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Post is the wire shape of a post as the API serves it: the author is a
// single "First Last" string, never the structured pair.
type Post struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

// Author is the structured byline accepted on writes.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateRequest is the POST /posts payload.
type CreateRequest struct {
	Title   string `json:"title"`
	Author  Author `json:"author"`
	Content string `json:"content"`
}

type listResponse struct {
	Posts []Post `json:"posts"`
}

// Client issues requests against one posts API base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return resp, data, nil
}

// List fetches all posts. It fails on any non-200 response.
func (c *Client) List(ctx context.Context) ([]Post, error) {
	resp, data, err := c.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /posts: expected 200, got %d", resp.StatusCode)
	}
	var out listResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("GET /posts: decode body: %w", err)
	}
	return out.Posts, nil
}

// ListRaw fetches the post list without imposing the typed shape, so callers
// can inspect exactly which keys the server emitted.
func (c *Client) ListRaw(ctx context.Context) ([]map[string]any, error) {
	resp, data, err := c.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /posts: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Posts []map[string]any `json:"posts"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("GET /posts: decode body: %w", err)
	}
	return out.Posts, nil
}

// Create posts one draft. The returned status lets callers verify rejection
// paths; the Post is only populated on 201.
func (c *Client) Create(ctx context.Context, draft CreateRequest) (Post, int, error) {
	return c.CreateRaw(ctx, draft)
}

// CreateRaw posts an arbitrary payload, for exercising invalid bodies.
func (c *Client) CreateRaw(ctx context.Context, payload any) (Post, int, error) {
	resp, data, err := c.do(ctx, http.MethodPost, "/posts", payload)
	if err != nil {
		return Post{}, 0, err
	}
	if resp.StatusCode != http.StatusCreated {
		return Post{}, resp.StatusCode, nil
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return Post{}, resp.StatusCode, fmt.Errorf("POST /posts: decode body: %w", err)
	}
	return p, resp.StatusCode, nil
}

// Get fetches one post by id. The Post is only populated on 200.
func (c *Client) Get(ctx context.Context, id string) (Post, int, error) {
	resp, data, err := c.do(ctx, http.MethodGet, "/posts/"+id, nil)
	if err != nil {
		return Post{}, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return Post{}, resp.StatusCode, nil
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return Post{}, resp.StatusCode, fmt.Errorf("GET /posts/%s: decode body: %w", id, err)
	}
	return p, resp.StatusCode, nil
}

// Update sends an arbitrary partial-update payload and returns the status.
func (c *Client) Update(ctx context.Context, id string, payload any) (int, error) {
	resp, _, err := c.do(ctx, http.MethodPut, "/posts/"+id, payload)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

// Delete removes one post by id and returns the status.
func (c *Client) Delete(ctx context.Context, id string) (int, error) {
	resp, _, err := c.do(ctx, http.MethodDelete, "/posts/"+id, nil)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}
