package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for the Slack integration
type Slack struct {
	botToken      string
	signingSecret string
	botUserID     string
	usergroupID   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Slack",
			Sources:     cli.EnvVars("STAGEHAND_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for slash command verification)",
			Category:    "Slack",
			Sources:     cli.EnvVars("STAGEHAND_SLACK_SIGNING_SECRET"),
			Destination: &x.signingSecret,
		},
		&cli.StringFlag{
			Name:        "slack-bot-user-id",
			Usage:       "Bot user invited to every project channel",
			Category:    "Slack",
			Sources:     cli.EnvVars("STAGEHAND_SLACK_BOT_USER_ID"),
			Destination: &x.botUserID,
		},
		&cli.StringFlag{
			Name:        "slack-usergroup-id",
			Usage:       "Usergroup whose members are invited to every project channel",
			Category:    "Slack",
			Sources:     cli.EnvVars("STAGEHAND_SLACK_USERGROUP_ID"),
			Destination: &x.usergroupID,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("bot-user-id", x.botUserID),
		slog.String("usergroup-id", x.usergroupID),
	)
}

// IsConfigured returns true if the bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// SigningSecret returns the signing secret for webhook verification
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure creates a Slack service from the configured flags
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}
	return svc, nil
}

// AdapterOptions returns the adapter options derived from the flags
func (x *Slack) AdapterOptions() []slack.AdapterOption {
	var opts []slack.AdapterOption
	if x.botUserID != "" {
		opts = append(opts, slack.WithBotUser(x.botUserID))
	}
	if x.usergroupID != "" {
		opts = append(opts, slack.WithUsergroup(x.usergroupID))
	}
	return opts
}
