package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/safe"
)

// DefaultBaseURL is the Toggl Track API v9 endpoint
const DefaultBaseURL = "https://api.track.toggl.com/api/v9"

// client implements Service interface. Toggl has no official Go SDK;
// this is a plain REST client against API v9.
type client struct {
	httpClient  *http.Client
	baseURL     string
	apiToken    string
	workspaceID int64
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the API endpoint, mainly for tests
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new Toggl Track service for the given workspace
func New(apiToken string, workspaceID int64, opts ...Option) (Service, error) {
	if apiToken == "" {
		return nil, goerr.New("Toggl API token is required")
	}
	if workspaceID == 0 {
		return nil, goerr.New("Toggl workspace ID is required")
	}

	c := &client{
		httpClient:  http.DefaultClient,
		baseURL:     DefaultBaseURL,
		apiToken:    apiToken,
		workspaceID: workspaceID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WorkspaceID returns the configured workspace
func (c *client) WorkspaceID() int64 {
	return c.workspaceID
}

// do sends a JSON request and decodes the response into out (when out
// is non-nil). Non-2xx statuses are classified into the error taxonomy.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal Toggl request", goerr.V("path", path))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build Toggl request", goerr.V("path", path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiToken, "api_token")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call Toggl API", goerr.T(types.ErrTagTransient), goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		options := []goerr.Option{
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)),
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			options = append(options, goerr.T(types.ErrTagNotFound))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			options = append(options, goerr.T(types.ErrTagTransient))
		}
		return goerr.New("Toggl API request failed", options...)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerr.Wrap(err, "failed to decode Toggl response", goerr.V("path", path))
		}
	}
	return nil
}

func (c *client) projectPath(projectID int64) string {
	return fmt.Sprintf("/workspaces/%d/projects/%d", c.workspaceID, projectID)
}

// CreateProject creates an active project in the workspace
func (c *client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var project Project
	body := map[string]any{"name": name, "active": true}
	path := fmt.Sprintf("/workspaces/%d/projects", c.workspaceID)
	if err := c.do(ctx, http.MethodPost, path, body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject retrieves the current state of a project
func (c *client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// RenameProject changes the project name
func (c *client) RenameProject(ctx context.Context, projectID int64, name string) error {
	return c.do(ctx, http.MethodPut, c.projectPath(projectID), map[string]any{"name": name}, nil)
}

// SetActive sets the project active flag
func (c *client) SetActive(ctx context.Context, projectID int64, active bool) error {
	return c.do(ctx, http.MethodPut, c.projectPath(projectID), map[string]any{"active": active}, nil)
}
