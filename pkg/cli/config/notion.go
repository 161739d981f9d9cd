package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds configuration for the Notion integration
type Notion struct {
	apiToken      string
	databaseID    string
	titleProperty string
}

// Flags returns CLI flags for Notion configuration
func (n *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token",
			Category:    "Notion",
			Sources:     cli.EnvVars("STAGEHAND_NOTION_API_TOKEN"),
			Destination: &n.apiToken,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "Notion database holding project pages",
			Category:    "Notion",
			Sources:     cli.EnvVars("STAGEHAND_NOTION_DATABASE_ID"),
			Destination: &n.databaseID,
		},
		&cli.StringFlag{
			Name:        "notion-title-property",
			Usage:       "Name of the database's title property",
			Value:       notion.DefaultTitleProperty,
			Category:    "Notion",
			Sources:     cli.EnvVars("STAGEHAND_NOTION_TITLE_PROPERTY"),
			Destination: &n.titleProperty,
		},
	}
}

func (n Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(n.apiToken)),
		slog.String("database-id", n.databaseID),
	)
}

// IsConfigured returns true if token and database are set
func (n *Notion) IsConfigured() bool {
	return n.apiToken != "" && n.databaseID != ""
}

// DatabaseID returns the Notion database ID
func (n *Notion) DatabaseID() string {
	return n.databaseID
}

// Configure creates a Notion service from the configured flags.
// Returns nil if token or database are not configured.
func (n *Notion) Configure() (notion.Service, error) {
	if !n.IsConfigured() {
		return nil, nil
	}

	svc, err := notion.New(n.apiToken, notion.WithTitleProperty(n.titleProperty))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Notion service")
	}
	return svc, nil
}
