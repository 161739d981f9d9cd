package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/usecase"
	"github.com/projektwerk/stagehand/pkg/utils/async"
	"github.com/projektwerk/stagehand/pkg/utils/errutil"
	"github.com/projektwerk/stagehand/pkg/utils/safe"
)

// formHookHandler handles generic form/webhook triggers. The payload
// carries {project_id, action, argument, token}; the token is compared
// in constant time against the configured secret before anything else
// happens.
func formHookHandler(uc *usecase.UseCases, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse form"), http.StatusBadRequest)
			return
		}

		got := r.PostFormValue("token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			errutil.HandleHTTP(ctx, w, goerr.New("form token mismatch"), http.StatusUnauthorized)
			return
		}

		action, err := types.ParseAction(r.PostFormValue("action"))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		argument := strings.TrimSpace(r.PostFormValue("argument"))

		if action == types.ActionCreate {
			typeCode := types.TypeCode(r.PostFormValue("type_code"))
			if argument == "" {
				errutil.HandleHTTP(ctx, w, goerr.New("argument (title) is required for create"), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			safe.Write(ctx, w, []byte("accepted"))

			async.Dispatch(ctx, func(ctx context.Context) error {
				_, err := uc.CreateProject(ctx, argument, typeCode, "")
				return err
			})
			return
		}

		projectID, err := strconv.ParseInt(r.PostFormValue("project_id"), 10, 64)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid project_id"), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		safe.Write(ctx, w, []byte("accepted"))

		async.Dispatch(ctx, func(ctx context.Context) error {
			switch action {
			case types.ActionRename:
				_, err := uc.RenameProject(ctx, projectID, argument, "")
				return err
			case types.ActionArchive:
				_, err := uc.ArchiveProject(ctx, projectID, "")
				return err
			case types.ActionUnarchive:
				_, err := uc.UnarchiveProject(ctx, projectID, "")
				return err
			default:
				return goerr.New("unsupported form action", goerr.V("action", action))
			}
		})
	}
}
