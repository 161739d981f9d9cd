package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/projektwerk/stagehand/pkg/controller/http"
)

func postForm(t *testing.T, srv *httpctrl.Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/hooks/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestFormHook(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong token is rejected without side effects", func(t *testing.T) {
		srv, repo, _ := newTestServer(t)

		rec := postForm(t, srv, url.Values{
			"token":     {"wrong"},
			"action":    {"create"},
			"type_code": {"P"},
			"argument":  {"Purple Cow"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)

		projects := gt.R1(repo.Project().List(ctx)).NoError(t)
		gt.Number(t, len(projects)).Equal(0)
	})

	t.Run("create builds a project", func(t *testing.T) {
		srv, repo, _ := newTestServer(t)

		rec := postForm(t, srv, url.Values{
			"token":     {"form-secret"},
			"action":    {"create"},
			"type_code": {"P"},
			"argument":  {"Purple Cow"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusAccepted)

		waitFor(t, func() bool {
			projects, err := repo.Project().List(ctx)
			return err == nil && len(projects) == 1
		})
		projects := gt.R1(repo.Project().List(ctx)).NoError(t)
		gt.Value(t, projects[0].Title).Equal("Purple Cow")
	})

	t.Run("archive targets the given project", func(t *testing.T) {
		srv, repo, uc := newTestServer(t)

		project := gt.R1(uc.CreateProject(ctx, "Purple Cow", "P", "")).NoError(t)

		rec := postForm(t, srv, url.Values{
			"token":      {"form-secret"},
			"action":     {"archive"},
			"project_id": {strconv.FormatInt(project.ID, 10)},
		})
		gt.Number(t, rec.Code).Equal(http.StatusAccepted)

		waitFor(t, func() bool {
			p, err := repo.Project().Get(ctx, project.ID)
			return err == nil && p.Archived
		})
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		rec := postForm(t, srv, url.Values{
			"token":      {"form-secret"},
			"action":     {"destroy"},
			"project_id": {"1"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing project_id is rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		rec := postForm(t, srv, url.Values{
			"token":  {"form-secret"},
			"action": {"rename"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}
