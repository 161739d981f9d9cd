package model

import (
	"time"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// Template is the singleton record whose entries are cloned onto every
// newly created project, establishing which service kinds a project
// participates in by default. It is seeded by the bootstrap command and
// never deleted.
type Template struct {
	Connections []TemplateConnection
	UpdatedAt   time.Time
}

// TemplateConnection describes one default connection of a template
type TemplateConnection struct {
	Kind      types.ServiceKind
	Qualifier string
}
