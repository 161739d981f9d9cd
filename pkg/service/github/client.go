package github

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// client implements Service interface
type client struct {
	api *github.Client
	org string
}

// New creates a new GitHub Service using GitHub App authentication.
// privateKey can be a PEM string or a file path to a PEM file.
func New(appID, installationID int64, privateKey, org string) (Service, error) {
	if org == "" {
		return nil, goerr.New("GitHub organization is required")
	}

	var key []byte

	// Try reading as file path first
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		// Treat as PEM string
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		api: github.NewClient(&http.Client{Transport: tr}),
		org: org,
	}, nil
}

// wrapAPIError classifies a GitHub API failure into the error taxonomy
func wrapAPIError(err error, msg string, options ...goerr.Option) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		options = append(options, goerr.T(types.ErrTagTransient))
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch {
		case respErr.Response.StatusCode == http.StatusNotFound:
			options = append(options, goerr.T(types.ErrTagNotFound))
		case respErr.Response.StatusCode == http.StatusUnprocessableEntity:
			// 422 on repository create means the name is taken
			options = append(options, goerr.T(types.ErrTagConflict))
		case respErr.Response.StatusCode >= 500:
			options = append(options, goerr.T(types.ErrTagTransient))
		}
	}
	return goerr.Wrap(err, msg, options...)
}

func convertRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		HTMLURL:  repo.GetHTMLURL(),
		Archived: repo.GetArchived(),
	}
}

// CreateRepository creates a private repository in the organization
func (c *client) CreateRepository(ctx context.Context, name string) (*Repository, error) {
	repo, _, err := c.api.Repositories.Create(ctx, c.org, &github.Repository{
		Name:    github.Ptr(name),
		Private: github.Ptr(true),
	})
	if err != nil {
		return nil, wrapAPIError(err, "failed to create GitHub repository", goerr.V("org", c.org), goerr.V("name", name))
	}
	return convertRepository(repo), nil
}

// GetRepository retrieves the current state of a repository by ID
func (c *client) GetRepository(ctx context.Context, id int64) (*Repository, error) {
	repo, _, err := c.api.Repositories.GetByID(ctx, id)
	if err != nil {
		return nil, wrapAPIError(err, "failed to get GitHub repository", goerr.V("id", id))
	}
	return convertRepository(repo), nil
}

// RenameRepository changes the repository name
func (c *client) RenameRepository(ctx context.Context, name, newName string) error {
	_, _, err := c.api.Repositories.Edit(ctx, c.org, name, &github.Repository{
		Name: github.Ptr(newName),
	})
	if err != nil {
		return wrapAPIError(err, "failed to rename GitHub repository", goerr.V("name", name), goerr.V("newName", newName))
	}
	return nil
}

// SetArchived sets the repository archived flag
func (c *client) SetArchived(ctx context.Context, name string, archived bool) error {
	_, _, err := c.api.Repositories.Edit(ctx, c.org, name, &github.Repository{
		Archived: github.Ptr(archived),
	})
	if err != nil {
		return wrapAPIError(err, "failed to update GitHub repository archive state", goerr.V("name", name), goerr.V("archived", archived))
	}
	return nil
}
