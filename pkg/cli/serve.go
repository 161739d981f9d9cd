package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/projektwerk/stagehand/pkg/cli/config"
	httpctrl "github.com/projektwerk/stagehand/pkg/controller/http"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/service/drive"
	"github.com/projektwerk/stagehand/pkg/service/github"
	"github.com/projektwerk/stagehand/pkg/service/groups"
	"github.com/projektwerk/stagehand/pkg/service/notion"
	"github.com/projektwerk/stagehand/pkg/service/registry"
	"github.com/projektwerk/stagehand/pkg/service/slack"
	"github.com/projektwerk/stagehand/pkg/service/toggl"
	"github.com/projektwerk/stagehand/pkg/service/worker"
	"github.com/projektwerk/stagehand/pkg/usecase"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var formToken string
	var retryAttempts int
	var retryCountdown time.Duration
	var workerConcurrency int
	var workerQueueSize int

	var repoCfg config.Repository
	var topologyCfg config.Topology
	var sentryCfg config.Sentry
	var slackCfg config.Slack
	var driveCfg config.Drive
	var notionCfg config.Notion
	var togglCfg config.Toggl
	var groupsCfg config.Groups
	var githubCfg config.GitHub

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("STAGEHAND_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "form-token",
			Usage:       "Shared token for the form trigger endpoint (empty disables it)",
			Sources:     cli.EnvVars("STAGEHAND_FORM_TOKEN"),
			Destination: &formToken,
		},
		&cli.IntFlag{
			Name:        "retry-attempts",
			Usage:       "Attempts per service action before giving up",
			Value:       worker.DefaultAttempts,
			Sources:     cli.EnvVars("STAGEHAND_RETRY_ATTEMPTS"),
			Destination: &retryAttempts,
		},
		&cli.DurationFlag{
			Name:        "retry-countdown",
			Usage:       "Wait between retry attempts",
			Value:       worker.DefaultCountdown,
			Sources:     cli.EnvVars("STAGEHAND_RETRY_COUNTDOWN"),
			Destination: &retryCountdown,
		},
		&cli.IntFlag{
			Name:        "worker-concurrency",
			Usage:       "Lifecycle jobs executed in parallel",
			Value:       worker.DefaultConcurrency,
			Sources:     cli.EnvVars("STAGEHAND_WORKER_CONCURRENCY"),
			Destination: &workerConcurrency,
		},
		&cli.IntFlag{
			Name:        "worker-queue-size",
			Usage:       "Capacity of the lifecycle job queue",
			Value:       worker.DefaultQueueSize,
			Sources:     cli.EnvVars("STAGEHAND_WORKER_QUEUE_SIZE"),
			Destination: &workerQueueSize,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, topologyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, driveCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, togglCfg.Flags()...)
	flags = append(flags, groupsCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if err := sentryCfg.Configure(version); err != nil {
				return err
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

			topology, err := topologyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load topology")
			}

			reg := registry.New(repo)
			ucOpts := []usecase.Option{
				usecase.WithTopology(topology),
				usecase.WithRunner(worker.NewRunner(
					worker.WithAttempts(retryAttempts),
					worker.WithCountdown(retryCountdown),
				)),
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if slackSvc != nil {
				reg.Register(slack.NewAdapter(slackSvc, repo, slackCfg.AdapterOptions()...))
				ucOpts = append(ucOpts, usecase.WithNotifier(slack.NewNotifier(slackSvc)))
				logger.Info("Slack integration enabled", "config", slackCfg)
			}

			driveSvc, err := driveCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if driveSvc != nil {
				reg.Register(drive.NewAdapter(driveSvc, repo, driveCfg.ActiveRootID(), driveCfg.ArchiveRootID()))
				logger.Info("Google Drive integration enabled", "config", driveCfg)
			}

			notionSvc, err := notionCfg.Configure()
			if err != nil {
				return err
			}
			if notionSvc != nil {
				reg.Register(notion.NewAdapter(notionSvc, repo, notionCfg.DatabaseID()))
				logger.Info("Notion integration enabled", "config", notionCfg)
			}

			togglSvc, err := togglCfg.Configure()
			if err != nil {
				return err
			}
			if togglSvc != nil {
				reg.Register(toggl.NewAdapter(togglSvc, repo))
				logger.Info("Toggl integration enabled", "config", togglCfg)
			}

			groupsSvc, err := groupsCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if groupsSvc != nil {
				reg.Register(groups.NewAdapter(groupsSvc, repo, groupsCfg.Domain()))
				logger.Info("Google Groups integration enabled", "config", groupsCfg)
			}

			githubSvc, err := githubCfg.Configure()
			if err != nil {
				return err
			}
			if githubSvc != nil {
				reg.Register(github.NewAdapter(githubSvc, repo))
				logger.Info("GitHub integration enabled", "config", githubCfg)
			}

			for _, kind := range topology.Order() {
				if !reg.Has(kind) {
					logger.Warn("topology service has no configured adapter, its connections will be skipped",
						"kind", kind.String())
				}
			}

			// The pool executes jobs through the use cases, and the use
			// cases enqueue follow-up jobs into the pool.
			var uc *usecase.UseCases
			pool := worker.NewPool(
				func(ctx context.Context, job model.LifecycleJob) error {
					return uc.ExecuteLifecycle(ctx, job)
				},
				worker.WithConcurrency(workerConcurrency),
				worker.WithQueueSize(workerQueueSize),
			)
			ucOpts = append(ucOpts, usecase.WithQueue(pool))
			uc = usecase.New(repo, reg, ucOpts...)

			if err := pool.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start worker pool")
			}

			httpOpts := []httpctrl.Options{}
			if slackCfg.SigningSecret() != "" {
				httpOpts = append(httpOpts, httpctrl.WithSlackCommand(slackCfg.SigningSecret()))
				logger.Info("Slack slash command endpoint enabled")
			}
			if formToken != "" {
				httpOpts = append(httpOpts, httpctrl.WithFormHook(formToken))
				logger.Info("Form trigger endpoint enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				pool.Stop()
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Drain queued lifecycle jobs before releasing the repository
				pool.Stop()

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
