package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/projektwerk/stagehand/pkg/controller/http"
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
	"github.com/projektwerk/stagehand/pkg/domain/model/config"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/repository/memory"
	"github.com/projektwerk/stagehand/pkg/service/registry"
	"github.com/projektwerk/stagehand/pkg/usecase"
)

// computeSlackSignature computes the Slack signature for testing
func computeSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func TestVerifySlackSignature(t *testing.T) {
	signingSecret := "test-signing-secret"
	body := []byte("command=%2Fproject&text=links")

	t.Run("valid signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature(signingSecret, timestamp, string(body))

		gt.NoError(t, httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, body))
	})

	t.Run("invalid signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)

		err := httpctrl.VerifySlackSignature(signingSecret, timestamp, "v0=invalid_signature", body)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing timestamp", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, "123456", string(body))

		err := httpctrl.VerifySlackSignature(signingSecret, "", signature, body)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)

		err := httpctrl.VerifySlackSignature(signingSecret, timestamp, "", body)
		gt.Value(t, err).NotNil()
	})

	t.Run("timestamp too old", func(t *testing.T) {
		// limit is 5 minutes
		oldTimestamp := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
		signature := computeSlackSignature(signingSecret, oldTimestamp, string(body))

		err := httpctrl.VerifySlackSignature(signingSecret, oldTimestamp, signature, body)
		gt.Value(t, err).NotNil()
	})

	t.Run("wrong secret", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature("wrong-secret", timestamp, string(body))

		err := httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, body)
		gt.Value(t, err).NotNil()
	})

	t.Run("tampered body", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature(signingSecret, timestamp, "command=%2Fproject&text=archive")

		err := httpctrl.VerifySlackSignature(signingSecret, timestamp, signature, body)
		gt.Value(t, err).NotNil()
	})
}

func TestSlackSignatureMiddleware(t *testing.T) {
	signingSecret := "test-signing-secret"
	body := []byte("command=%2Fproject&text=links")

	t.Run("calls next handler and restores body when signature is valid", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature(signingSecret, timestamp, string(body))

		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", timestamp)
		req.Header.Set("X-Slack-Signature", signature)
		rec := httptest.NewRecorder()

		var receivedBody []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		})

		httpctrl.SlackSignatureMiddleware(signingSecret)(next).ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, string(receivedBody)).Equal(string(body))
	})

	t.Run("rejects invalid signature without calling next", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)

		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", timestamp)
		req.Header.Set("X-Slack-Signature", "v0=invalid")
		rec := httptest.NewRecorder()

		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		})

		httpctrl.SlackSignatureMiddleware(signingSecret)(next).ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.Bool(t, nextCalled).False()
	})
}

const testSigningSecret = "test-signing-secret"

func newTestServer(t *testing.T) (*httpctrl.Server, interfaces.Repository, *usecase.UseCases) {
	t.Helper()

	repo := memory.New()
	topology := &config.Topology{
		Services: []config.Service{
			{Kind: "slack", Pretty: "Slack"},
		},
		Types: []config.ProjectType{
			{Code: "P", Name: "Product"},
		},
	}
	uc := usecase.New(repo, registry.New(repo), usecase.WithTopology(topology))
	srv := httpctrl.New(uc,
		httpctrl.WithSlackCommand(testSigningSecret),
		httpctrl.WithFormHook("form-secret"),
	)
	return srv, repo, uc
}

// postCommand sends a signed slash command request
func postCommand(t *testing.T, srv *httpctrl.Server, channelID, text string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("command", "/project")
	form.Set("channel_id", channelID)
	form.Set("user_id", "U012345")
	form.Set("text", text)
	body := form.Encode()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", computeSlackSignature(testSigningSecret, timestamp, body))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// linkChannel marks the project's slack connection as created under the
// given channel ID
func linkChannel(t *testing.T, repo interfaces.Repository, projectID int64, channelID string) {
	t.Helper()
	ctx := context.Background()

	connections := gt.R1(repo.Connection().ListByProject(ctx, projectID)).NoError(t)
	for _, conn := range connections {
		if conn.Kind == types.ServiceKindSlack && conn.Qualifier == "" {
			conn.RemoteID = channelID
			gt.R1(repo.Connection().Update(ctx, conn)).NoError(t)
			return
		}
	}
	t.Fatal("project has no slack connection")
}

// waitFor polls until the condition holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSlackCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown subcommand returns usage", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		rec := postCommand(t, srv, "C012345", "destroy 1")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Usage:")
		gt.String(t, rec.Body.String()).Contains("ephemeral")
	})

	t.Run("create acknowledges and creates the project", func(t *testing.T) {
		srv, repo, _ := newTestServer(t)

		rec := postCommand(t, srv, "C012345", "create P Purple Cow")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Creating project *Purple Cow*")

		waitFor(t, func() bool {
			projects, err := repo.Project().List(ctx)
			return err == nil && len(projects) == 1
		})
		projects := gt.R1(repo.Project().List(ctx)).NoError(t)
		gt.Value(t, projects[0].Title).Equal("Purple Cow")
		gt.Value(t, projects[0].TypeCode).Equal(types.TypeCode("P"))
	})

	t.Run("create rejects unknown type code", func(t *testing.T) {
		srv, repo, _ := newTestServer(t)

		rec := postCommand(t, srv, "C012345", "create lowercase Purple Cow")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Invalid type code")

		projects := gt.R1(repo.Project().List(ctx)).NoError(t)
		gt.Number(t, len(projects)).Equal(0)
	})

	t.Run("archive resolves the project from the channel", func(t *testing.T) {
		srv, repo, uc := newTestServer(t)

		project := gt.R1(uc.CreateProject(ctx, "Purple Cow", "P", "")).NoError(t)
		linkChannel(t, repo, project.ID, "C055555")

		rec := postCommand(t, srv, "C055555", "archive")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Archiving project *Purple Cow*")

		waitFor(t, func() bool {
			p, err := repo.Project().Get(ctx, project.ID)
			return err == nil && p.Archived
		})
	})

	t.Run("archive in an unlinked channel is rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		rec := postCommand(t, srv, "C099999", "archive")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("does not belong to a project")
	})

	t.Run("unarchive takes an explicit project ID", func(t *testing.T) {
		srv, repo, uc := newTestServer(t)

		project := gt.R1(uc.CreateProject(ctx, "Purple Cow", "P", "")).NoError(t)
		gt.R1(uc.ArchiveProject(ctx, project.ID, "")).NoError(t)

		rec := postCommand(t, srv, "C012345", fmt.Sprintf("unarchive %d", project.ID))
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Unarchiving project")

		waitFor(t, func() bool {
			p, err := repo.Project().Get(ctx, project.ID)
			return err == nil && !p.Archived
		})
	})

	t.Run("rename resolves the project from the channel", func(t *testing.T) {
		srv, repo, uc := newTestServer(t)

		project := gt.R1(uc.CreateProject(ctx, "Purple Cow", "P", "")).NoError(t)
		linkChannel(t, repo, project.ID, "C066666")

		rec := postCommand(t, srv, "C066666", "rename Green Cow")
		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains("Renaming project")

		waitFor(t, func() bool {
			p, err := repo.Project().Get(ctx, project.ID)
			return err == nil && p.Title == "Green Cow"
		})
	})
}
