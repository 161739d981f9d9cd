package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

type templateRepository struct {
	mu       sync.RWMutex
	template *model.Template
}

func newTemplateRepository() *templateRepository {
	return &templateRepository{}
}

func copyTemplate(t *model.Template) *model.Template {
	connections := make([]model.TemplateConnection, len(t.Connections))
	copy(connections, t.Connections)
	return &model.Template{
		Connections: connections,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *templateRepository) Get(ctx context.Context) (*model.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.template == nil {
		return nil, goerr.New("template not bootstrapped", goerr.T(types.ErrTagNotFound))
	}
	return copyTemplate(r.template), nil
}

func (r *templateRepository) Put(ctx context.Context, t *model.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyTemplate(t)
	stored.UpdatedAt = time.Now().UTC()
	r.template = stored
	return nil
}
