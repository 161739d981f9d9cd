package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/cli/config"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdBootstrap() *cli.Command {
	var repoCfg config.Repository
	var topologyCfg config.Topology

	flags := append(repoCfg.Flags(), topologyCfg.Flags()...)

	return &cli.Command{
		Name:  "bootstrap",
		Usage: "Seed the connection template from the topology configuration",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if topologyCfg.Path() == "" {
				return goerr.New("topology is required for bootstrap")
			}
			topology, err := topologyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load topology")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			template := &model.Template{}
			for _, spec := range topology.Template {
				kind, err := types.ParseServiceKind(spec.Kind)
				if err != nil {
					return goerr.Wrap(err, "invalid template entry")
				}
				template.Connections = append(template.Connections, model.TemplateConnection{
					Kind:      kind,
					Qualifier: spec.Qualifier,
				})
			}

			if len(template.Connections) == 0 {
				// Fall back to one unqualified connection per declared service
				for _, kind := range topology.Order() {
					template.Connections = append(template.Connections, model.TemplateConnection{Kind: kind})
				}
			}

			if err := repo.Template().Put(ctx, template); err != nil {
				return goerr.Wrap(err, "failed to store template")
			}

			logger.Info("Template seeded", "connections", len(template.Connections))
			return nil
		},
	}
}
