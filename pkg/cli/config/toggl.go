package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/service/toggl"
	"github.com/urfave/cli/v3"
)

// Toggl holds configuration for the Toggl Track integration
type Toggl struct {
	apiToken    string
	workspaceID int
}

// Flags returns CLI flags for Toggl configuration
func (t *Toggl) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "toggl-api-token",
			Usage:       "Toggl Track API token",
			Category:    "Toggl",
			Sources:     cli.EnvVars("STAGEHAND_TOGGL_API_TOKEN"),
			Destination: &t.apiToken,
		},
		&cli.IntFlag{
			Name:        "toggl-workspace-id",
			Usage:       "Toggl Track workspace ID",
			Category:    "Toggl",
			Sources:     cli.EnvVars("STAGEHAND_TOGGL_WORKSPACE_ID"),
			Destination: &t.workspaceID,
		},
	}
}

func (t Toggl) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(t.apiToken)),
		slog.Int("workspace-id", t.workspaceID),
	)
}

// IsConfigured returns true if token and workspace are set
func (t *Toggl) IsConfigured() bool {
	return t.apiToken != "" && t.workspaceID != 0
}

// Configure creates a Toggl service from the configured flags.
// Returns nil if token or workspace are not configured.
func (t *Toggl) Configure() (toggl.Service, error) {
	if !t.IsConfigured() {
		return nil, nil
	}

	svc, err := toggl.New(t.apiToken, int64(t.workspaceID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Toggl service")
	}
	return svc, nil
}
