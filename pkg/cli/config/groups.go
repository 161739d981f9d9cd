package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/service/groups"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Groups holds configuration for the Google Groups integration.
// The Admin SDK requires domain-wide delegation, so the credentials
// file must belong to a service account impersonating an admin user.
type Groups struct {
	credentialsFile string
	domain          string
}

// Flags returns CLI flags for Google Groups configuration
func (g *Groups) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "groups-credentials-file",
			Usage:       "Service account credentials file for the Google Admin SDK",
			Category:    "Google Groups",
			Sources:     cli.EnvVars("STAGEHAND_GROUPS_CREDENTIALS_FILE"),
			Destination: &g.credentialsFile,
		},
		&cli.StringFlag{
			Name:        "groups-domain",
			Usage:       "Workspace domain for mailing list addresses (e.g. example.com)",
			Category:    "Google Groups",
			Sources:     cli.EnvVars("STAGEHAND_GROUPS_DOMAIN"),
			Destination: &g.domain,
		},
	}
}

func (g Groups) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("domain", g.domain),
	)
}

// IsConfigured returns true if the workspace domain is set
func (g *Groups) IsConfigured() bool {
	return g.domain != ""
}

// Domain returns the workspace domain
func (g *Groups) Domain() string {
	return g.domain
}

// Configure creates a Google Groups service from the configured flags.
// Returns nil if the domain is not configured.
func (g *Groups) Configure(ctx context.Context) (groups.Service, error) {
	if !g.IsConfigured() {
		return nil, nil
	}

	var opts []option.ClientOption
	if g.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.credentialsFile))
	}
	svc, err := groups.New(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Google Groups service")
	}
	return svc, nil
}
