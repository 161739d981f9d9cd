package notion

import (
	"context"
	"errors"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// DefaultTitleProperty is the property name Notion assigns to the
// title column of a new database
const DefaultTitleProperty = "Name"

// client implements Service interface
type client struct {
	api           *notionapi.Client
	titleProperty string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTitleProperty sets the name of the database's title property
func WithTitleProperty(name string) Option {
	return func(c *client) {
		c.titleProperty = name
	}
}

// New creates a new Notion service with the provided API token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	c := &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
		titleProperty: DefaultTitleProperty,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// wrapAPIError classifies a Notion API failure into the error taxonomy
func wrapAPIError(err error, msg string, options ...goerr.Option) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == "object_not_found":
			options = append(options, goerr.T(types.ErrTagNotFound))
		case apiErr.Code == "conflict_error":
			options = append(options, goerr.T(types.ErrTagConflict))
		case apiErr.Code == "rate_limited" || apiErr.Status >= 500:
			options = append(options, goerr.T(types.ErrTagTransient))
		}
	}
	return goerr.Wrap(err, msg, options...)
}

func (c *client) titleProperties(title string) notionapi.Properties {
	return notionapi.Properties{
		c.titleProperty: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{Text: &notionapi.Text{Content: title}},
			},
		},
	}
}

func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		tp, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		var parts []string
		for _, rt := range tp.Title {
			parts = append(parts, rt.PlainText)
		}
		return strings.Join(parts, "")
	}
	return ""
}

// CreatePage creates a page in the given database with the given title
func (c *client) CreatePage(ctx context.Context, databaseID, title string) (*Page, error) {
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: c.titleProperties(title),
	})
	if err != nil {
		return nil, wrapAPIError(err, "failed to create Notion page", goerr.V("databaseID", databaseID), goerr.V("title", title))
	}
	return &Page{ID: page.ID.String(), Title: title, URL: page.URL, Archived: page.Archived}, nil
}

// GetPage retrieves the current state of a page
func (c *client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, wrapAPIError(err, "failed to get Notion page", goerr.V("pageID", pageID))
	}
	return &Page{ID: page.ID.String(), Title: pageTitle(page), URL: page.URL, Archived: page.Archived}, nil
}

// RenamePage updates the page title
func (c *client) RenamePage(ctx context.Context, pageID, title string) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: c.titleProperties(title),
	})
	if err != nil {
		return wrapAPIError(err, "failed to rename Notion page", goerr.V("pageID", pageID), goerr.V("title", title))
	}
	return nil
}

// SetArchived sets the page archived flag
func (c *client) SetArchived(ctx context.Context, pageID string, archived bool) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		// Update requires a properties map even when only the archived
		// flag changes
		Properties: notionapi.Properties{},
		Archived:   archived,
	})
	if err != nil {
		return wrapAPIError(err, "failed to update Notion page archive state", goerr.V("pageID", pageID), goerr.V("archived", archived))
	}
	return nil
}
