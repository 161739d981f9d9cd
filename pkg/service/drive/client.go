package drive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// client implements Service interface
type client struct {
	srv *drive.Service
}

// New creates a new Drive service. Credentials come from the
// environment (Application Default Credentials) unless overridden by
// client options.
func New(ctx context.Context, opts ...option.ClientOption) (Service, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Drive service")
	}
	return &client{srv: srv}, nil
}

// wrapAPIError classifies a Drive API failure into the error taxonomy
func wrapAPIError(err error, msg string, options ...goerr.Option) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 404:
			options = append(options, goerr.T(types.ErrTagNotFound))
		case apiErr.Code == 429 || apiErr.Code >= 500:
			options = append(options, goerr.T(types.ErrTagTransient))
		}
	}
	return goerr.Wrap(err, msg, options...)
}

// CreateFolder creates a folder under the given parent
func (c *client) CreateFolder(ctx context.Context, name, parentID string) (*Folder, error) {
	folder, err := c.srv.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id, name, parents").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "failed to create Drive folder", goerr.V("name", name), goerr.V("parentID", parentID))
	}
	return &Folder{ID: folder.Id, Name: folder.Name, Parents: folder.Parents}, nil
}

// FindFolder looks up a non-trashed folder by exact name under the given parent
func (c *client) FindFolder(ctx context.Context, name, parentID string) (*Folder, error) {
	// Drive query strings escape single quotes with a backslash
	escaped := strings.ReplaceAll(name, `'`, `\'`)
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escaped, parentID, folderMimeType)

	list, err := c.srv.Files.List().Q(query).Fields("files(id, name, parents)").
		SupportsAllDrives(true).IncludeItemsFromAllDrives(true).PageSize(1).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "failed to search Drive folder", goerr.V("name", name), goerr.V("parentID", parentID))
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	f := list.Files[0]
	return &Folder{ID: f.Id, Name: f.Name, Parents: f.Parents}, nil
}

// Metadata retrieves the current name and parents of a folder
func (c *client) Metadata(ctx context.Context, folderID string) (*Folder, error) {
	folder, err := c.srv.Files.Get(folderID).Fields("id, name, parents").
		SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "failed to get Drive folder", goerr.V("folderID", folderID))
	}
	return &Folder{ID: folder.Id, Name: folder.Name, Parents: folder.Parents}, nil
}

// Rename changes the folder name
func (c *client) Rename(ctx context.Context, folderID, name string) error {
	_, err := c.srv.Files.Update(folderID, &drive.File{Name: name}).
		SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return wrapAPIError(err, "failed to rename Drive folder", goerr.V("folderID", folderID), goerr.V("name", name))
	}
	return nil
}

// Move reparents a folder
func (c *client) Move(ctx context.Context, folderID, fromParentID, toParentID string) error {
	_, err := c.srv.Files.Update(folderID, nil).
		AddParents(toParentID).RemoveParents(fromParentID).
		SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return wrapAPIError(err, "failed to move Drive folder",
			goerr.V("folderID", folderID), goerr.V("from", fromParentID), goerr.V("to", toParentID))
	}
	return nil
}
