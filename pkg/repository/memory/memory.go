package memory

import (
	"github.com/projektwerk/stagehand/pkg/domain/interfaces"
)

type Memory struct {
	project    *projectRepository
	connection *connectionRepository
	template   *templateRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		project:    newProjectRepository(),
		connection: newConnectionRepository(),
		template:   newTemplateRepository(),
	}
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Connection() interfaces.ConnectionRepository {
	return m.connection
}

func (m *Memory) Template() interfaces.TemplateRepository {
	return m.template
}

func (m *Memory) Close() error {
	return nil
}
