package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type templateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTemplateRepository(client *firestore.Client) *templateRepository {
	return &templateRepository{
		client: client,
	}
}

func (r *templateRepository) templatesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_templates"
	}
	return "templates"
}

// The template is a singleton document
func (r *templateRepository) doc() *firestore.DocumentRef {
	return r.client.Collection(r.templatesCollection()).Doc("default")
}

func (r *templateRepository) Get(ctx context.Context) (*model.Template, error) {
	docSnap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("template not bootstrapped", goerr.T(types.ErrTagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to get template")
	}

	var t model.Template
	if err := docSnap.DataTo(&t); err != nil {
		return nil, goerr.Wrap(err, "failed to decode template")
	}

	return &t, nil
}

func (r *templateRepository) Put(ctx context.Context, t *model.Template) error {
	stored := *t
	stored.UpdatedAt = time.Now().UTC()

	if _, err := r.doc().Set(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put template")
	}
	return nil
}
