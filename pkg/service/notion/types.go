package notion

import (
	"context"
)

// Service provides the thin interface to the Notion API used by the
// page adapter
type Service interface {
	// CreatePage creates a page in the given database with the given
	// title
	CreatePage(ctx context.Context, databaseID, title string) (*Page, error)

	// GetPage retrieves the current state of a page, including its
	// archived flag
	GetPage(ctx context.Context, pageID string) (*Page, error)

	// RenamePage updates the page title
	RenamePage(ctx context.Context, pageID, title string) error

	// SetArchived sets the page archived flag
	SetArchived(ctx context.Context, pageID string, archived bool) error
}

// Page represents a Notion page
type Page struct {
	ID       string
	Title    string
	URL      string
	Archived bool
}
