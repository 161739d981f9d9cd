package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/usecase"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
	"github.com/projektwerk/stagehand/pkg/utils/safe"
)

type projectResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	TypeCode  string    `json:"type_code"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Title:     p.Title,
		TypeCode:  p.TypeCode.String(),
		Archived:  p.Archived,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type connectionResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Qualifier string `json:"qualifier,omitempty"`
	RemoteID  string `json:"remote_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Archived  bool   `json:"archived"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(r.Context(), w, data)
}

func projectIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "projectID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid project ID", goerr.V("projectID", raw))
	}
	return id, nil
}

func statusFromError(err error) int {
	switch {
	case types.IsNotFound(err):
		return http.StatusNotFound
	case types.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func listProjectsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := uc.ListProjects(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		resp := make([]projectResponse, len(projects))
		for i, p := range projects {
			resp[i] = toProjectResponse(p)
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func createProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Title    string `json:"title"`
		TypeCode string `json:"type_code"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request body"), http.StatusBadRequest)
			return
		}

		project, err := uc.CreateProject(r.Context(), req.Title, types.TypeCode(req.TypeCode), "")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, r, http.StatusCreated, toProjectResponse(project))
	}
}

func getProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		project, err := uc.GetProject(r.Context(), id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}
		writeJSON(w, r, http.StatusOK, toProjectResponse(project))
	}
}

// updateProjectHandler maps field transitions to the explicit intention
// methods: a changed title is a rename, a changed type code re-labels
// everything, archived transitions archive or unarchive.
func updateProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Title    *string `json:"title"`
		TypeCode *string `json:"type_code"`
		Archived *bool   `json:"archived"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request body"), http.StatusBadRequest)
			return
		}

		project, err := uc.GetProject(r.Context(), id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		if req.Title != nil && *req.Title != project.Title {
			if project, err = uc.RenameProject(r.Context(), id, *req.Title, ""); err != nil {
				errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
				return
			}
		}
		if req.TypeCode != nil && types.TypeCode(*req.TypeCode) != project.TypeCode {
			if project, err = uc.ChangeProjectType(r.Context(), id, types.TypeCode(*req.TypeCode), ""); err != nil {
				errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
				return
			}
		}
		if req.Archived != nil && *req.Archived != project.Archived {
			if *req.Archived {
				project, err = uc.ArchiveProject(r.Context(), id, "")
			} else {
				project, err = uc.UnarchiveProject(r.Context(), id, "")
			}
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
				return
			}
		}

		writeJSON(w, r, http.StatusOK, toProjectResponse(project))
	}
}

func deleteProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		if err := uc.DeleteProject(r.Context(), id); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listConnectionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		connections, err := uc.ListConnections(r.Context(), id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		resp := make([]connectionResponse, len(connections))
		for i, c := range connections {
			resp[i] = connectionResponse{
				ID:        c.ID.String(),
				Kind:      c.Kind.String(),
				Qualifier: c.Qualifier,
				RemoteID:  c.RemoteID,
				Status:    c.Status,
				Archived:  c.Archived,
			}
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}
