package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"choreboard/internal/model"
)

// Client is the only component that performs network I/O for chore and
// user data. It speaks the server's REST contract and maps responses onto
// the ErrNotFound / RemoteError taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListChores returns all chores in the backend's contract order: due date
// ascending, most recently created first among ties.
func (c *Client) ListChores(ctx context.Context) ([]model.Chore, error) {
	var chores []model.Chore
	if _, err := c.do(ctx, http.MethodGet, "/api/chores", nil, &chores); err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	return chores, nil
}

func (c *Client) GetChore(ctx context.Context, id int64) (model.Chore, error) {
	var chore model.Chore
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/chores/%d", id), nil, &chore)
	if status == http.StatusNotFound {
		return model.Chore{}, fmt.Errorf("get chore %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Chore{}, fmt.Errorf("get chore %d: %w", id, err)
	}
	return chore, nil
}

func (c *Client) CreateChore(ctx context.Context, payload model.CreateChore) (model.Chore, error) {
	var chore model.Chore
	if _, err := c.do(ctx, http.MethodPost, "/api/chores", payload, &chore); err != nil {
		return model.Chore{}, fmt.Errorf("create chore: %w", err)
	}
	return chore, nil
}

// UpdateChore is full replacement: the payload must carry every mutable
// field, and omitted optional fields are cleared.
func (c *Client) UpdateChore(ctx context.Context, id int64, payload model.UpdateChore) (model.Chore, error) {
	var chore model.Chore
	status, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/chores/%d", id), payload, &chore)
	if status == http.StatusNotFound {
		return model.Chore{}, fmt.Errorf("update chore %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Chore{}, fmt.Errorf("update chore %d: %w", id, err)
	}
	return chore, nil
}

// DeleteChore reports whether a chore was deleted. A miss is deleted=false,
// not an error.
func (c *Client) DeleteChore(ctx context.Context, id int64) (bool, error) {
	status, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/chores/%d", id), nil, nil)
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete chore %d: %w", id, err)
	}
	return true, nil
}

// ListUsers returns all users ordered by name ascending.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, payload model.CreateUser) (model.User, error) {
	var user model.User
	if _, err := c.do(ctx, http.MethodPost, "/api/users", payload, &user); err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// do performs one request. It returns the HTTP status (0 when the request
// never completed) so callers can map 404 onto their own semantics; every
// other non-2xx becomes a RemoteError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&payload)
		return resp.StatusCode, &RemoteError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
