package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/usecase"
	"github.com/projektwerk/stagehand/pkg/utils/async"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
	"github.com/projektwerk/stagehand/pkg/utils/safe"
	slackgo "github.com/slack-go/slack"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const slackBodyKey contextKey = "slack_body"

// verifySlackSignature verifies the Slack request signature
// This is a pure function that can be used independently for testing
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	// Compute expected signature
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Compare signatures
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request signatures
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Read body
			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			// Get headers
			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			// Verify signature
			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			// Store body in context for later use and restore it to the request
			ctx = context.WithValue(ctx, slackBodyKey, body)
			r.Body = io.NopCloser(bytes.NewBuffer(body))

			// Call next handler
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

const commandUsage = "Usage: `/project create <type> <title>` | `/project rename <title>` | `/project archive` | `/project unarchive <id>` | `/project links`"

// slackCommandHandler handles the /project slash command. Slack expects
// a response within 3 seconds, so the handler answers with an ephemeral
// acknowledgement and runs the lifecycle asynchronously.
func slackCommandHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cmd, err := slackgo.SlashCommandParse(r)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
			return
		}

		fields := strings.Fields(cmd.Text)
		if len(fields) == 0 {
			respondEphemeral(w, r, commandUsage)
			return
		}

		// Subcommand strings map through this fixed table only
		switch fields[0] {
		case "create":
			handleCreateCommand(w, r, uc, fields[1:])
		case "rename":
			handleRenameCommand(w, r, uc, cmd.ChannelID, fields[1:])
		case "archive":
			handleArchiveCommand(w, r, uc, cmd.ChannelID)
		case "unarchive":
			handleUnarchiveCommand(w, r, uc, fields[1:])
		case "links":
			handleLinksCommand(w, r, uc, cmd.ChannelID)
		default:
			respondEphemeral(w, r, commandUsage)
		}
	}
}

func handleCreateCommand(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, args []string) {
	if len(args) < 2 {
		respondEphemeral(w, r, commandUsage)
		return
	}

	typeCode := types.TypeCode(strings.ToUpper(args[0]))
	if err := typeCode.Validate(); err != nil {
		respondEphemeral(w, r, fmt.Sprintf("Invalid type code %q. %s", args[0], commandUsage))
		return
	}
	title := strings.Join(args[1:], " ")

	respondEphemeral(w, r, fmt.Sprintf("Creating project *%s*, the channel will be ready shortly", title))

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := uc.CreateProject(ctx, title, typeCode, types.ServiceKindSlack)
		return err
	})
}

func handleRenameCommand(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, channelID string, args []string) {
	if len(args) == 0 {
		respondEphemeral(w, r, commandUsage)
		return
	}

	project, err := uc.ProjectByChannel(r.Context(), channelID)
	if err != nil {
		respondEphemeral(w, r, "This channel does not belong to a project")
		return
	}
	title := strings.Join(args, " ")

	respondEphemeral(w, r, fmt.Sprintf("Renaming project %d to *%s*", project.ID, title))

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := uc.RenameProject(ctx, project.ID, title, types.ServiceKindSlack)
		return err
	})
}

func handleArchiveCommand(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, channelID string) {
	project, err := uc.ProjectByChannel(r.Context(), channelID)
	if err != nil {
		respondEphemeral(w, r, "This channel does not belong to a project")
		return
	}

	respondEphemeral(w, r, fmt.Sprintf("Archiving project *%s*", project.Title))

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := uc.ArchiveProject(ctx, project.ID, types.ServiceKindSlack)
		return err
	})
}

func handleUnarchiveCommand(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, args []string) {
	// The project channel is archived at this point, so unarchive takes
	// an explicit project ID instead of resolving the channel.
	if len(args) == 0 {
		respondEphemeral(w, r, commandUsage)
		return
	}
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		respondEphemeral(w, r, fmt.Sprintf("%q is not a project ID. %s", args[0], commandUsage))
		return
	}

	respondEphemeral(w, r, fmt.Sprintf("Unarchiving project %d", projectID))

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := uc.UnarchiveProject(ctx, projectID, types.ServiceKindSlack)
		return err
	})
}

func handleLinksCommand(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, channelID string) {
	project, err := uc.ProjectByChannel(r.Context(), channelID)
	if err != nil {
		respondEphemeral(w, r, "This channel does not belong to a project")
		return
	}

	respondEphemeral(w, r, "Refreshing the pinned links message")

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		return uc.SyncLinks(ctx, project.ID)
	})
}

// respondEphemeral writes a Slack ephemeral message response, visible
// only to the user who issued the command
func respondEphemeral(w http.ResponseWriter, r *http.Request, text string) {
	resp := map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal command response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}
