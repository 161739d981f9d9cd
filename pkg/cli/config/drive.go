package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/service/drive"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Drive holds configuration for the Google Drive integration
type Drive struct {
	credentialsFile string
	activeRootID    string
	archiveRootID   string
}

// Flags returns CLI flags for Google Drive configuration
func (d *Drive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "drive-credentials-file",
			Usage:       "Service account credentials file for Google Drive (omit to use application default credentials)",
			Category:    "Google Drive",
			Sources:     cli.EnvVars("STAGEHAND_DRIVE_CREDENTIALS_FILE"),
			Destination: &d.credentialsFile,
		},
		&cli.StringFlag{
			Name:        "drive-active-root-id",
			Usage:       "Folder ID holding active project folders",
			Category:    "Google Drive",
			Sources:     cli.EnvVars("STAGEHAND_DRIVE_ACTIVE_ROOT_ID"),
			Destination: &d.activeRootID,
		},
		&cli.StringFlag{
			Name:        "drive-archive-root-id",
			Usage:       "Folder ID holding archived project folders",
			Category:    "Google Drive",
			Sources:     cli.EnvVars("STAGEHAND_DRIVE_ARCHIVE_ROOT_ID"),
			Destination: &d.archiveRootID,
		},
	}
}

func (d Drive) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("active-root-id", d.activeRootID),
		slog.String("archive-root-id", d.archiveRootID),
	)
}

// IsConfigured returns true if both root folders are set
func (d *Drive) IsConfigured() bool {
	return d.activeRootID != "" && d.archiveRootID != ""
}

// ActiveRootID returns the active root folder ID
func (d *Drive) ActiveRootID() string {
	return d.activeRootID
}

// ArchiveRootID returns the archive root folder ID
func (d *Drive) ArchiveRootID() string {
	return d.archiveRootID
}

// Configure creates a Google Drive service from the configured flags.
// Returns nil if the root folders are not configured.
func (d *Drive) Configure(ctx context.Context) (drive.Service, error) {
	if !d.IsConfigured() {
		return nil, nil
	}

	var opts []option.ClientOption
	if d.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(d.credentialsFile))
	}
	svc, err := drive.New(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Google Drive service")
	}
	return svc, nil
}
