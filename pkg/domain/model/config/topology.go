package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// Topology describes the service landscape of the installation: which
// services exist, their display names and dispatch order, the project
// type codes, and the template connections cloned onto new projects.
// It is loaded from a TOML file.
type Topology struct {
	Services []Service      `toml:"service"`
	Types    []ProjectType  `toml:"project_type"`
	Template []TemplateSpec `toml:"template"`
}

// Service declares one participating service kind
type Service struct {
	Kind   string `toml:"kind"`
	Pretty string `toml:"pretty"`
}

// Validate checks if the Service entry is valid
func (s *Service) Validate() error {
	if _, err := types.ParseServiceKind(s.Kind); err != nil {
		return goerr.Wrap(err, "invalid service kind", goerr.V("kind", s.Kind))
	}
	if s.Pretty == "" {
		return goerr.New("service pretty name is required", goerr.V("kind", s.Kind))
	}
	return nil
}

// ProjectType maps a single-character type code to its description
type ProjectType struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

// Validate checks if the ProjectType is valid
func (p *ProjectType) Validate() error {
	if err := types.TypeCode(p.Code).Validate(); err != nil {
		return goerr.Wrap(err, "invalid project type code")
	}
	if p.Name == "" {
		return goerr.New("project type name is required", goerr.V("code", p.Code))
	}
	return nil
}

// TemplateSpec declares one default connection for new projects
type TemplateSpec struct {
	Kind      string `toml:"kind"`
	Qualifier string `toml:"qualifier"`
}

// Validate checks if the TemplateSpec is valid
func (t *TemplateSpec) Validate() error {
	if _, err := types.ParseServiceKind(t.Kind); err != nil {
		return goerr.Wrap(err, "invalid template service kind", goerr.V("kind", t.Kind))
	}
	return nil
}

// Validate checks the whole topology
func (t *Topology) Validate() error {
	seenKinds := make(map[string]bool)
	for i := range t.Services {
		if err := t.Services[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid service entry", goerr.V("index", i))
		}
		if seenKinds[t.Services[i].Kind] {
			return goerr.New("duplicate service kind", goerr.V("kind", t.Services[i].Kind))
		}
		seenKinds[t.Services[i].Kind] = true
	}

	seenCodes := make(map[string]bool)
	for i := range t.Types {
		if err := t.Types[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid project type entry", goerr.V("index", i))
		}
		if seenCodes[t.Types[i].Code] {
			return goerr.New("duplicate project type code", goerr.V("code", t.Types[i].Code))
		}
		seenCodes[t.Types[i].Code] = true
	}

	seenTemplates := make(map[string]bool)
	for i := range t.Template {
		if err := t.Template[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid template entry", goerr.V("index", i))
		}
		key := t.Template[i].Kind + "/" + t.Template[i].Qualifier
		if seenTemplates[key] {
			return goerr.New("duplicate template entry", goerr.V("kind", t.Template[i].Kind), goerr.V("qualifier", t.Template[i].Qualifier))
		}
		seenTemplates[key] = true
	}

	return nil
}

// Order returns the declared service kinds in dispatch order. Falls back
// to the built-in default order when no services are declared.
func (t *Topology) Order() []types.ServiceKind {
	if len(t.Services) == 0 {
		return types.AllServiceKinds()
	}
	order := make([]types.ServiceKind, 0, len(t.Services))
	for _, s := range t.Services {
		order = append(order, types.ServiceKind(s.Kind))
	}
	return order
}

// Pretty returns the display name of a service kind, falling back to the
// raw kind string.
func (t *Topology) Pretty(kind types.ServiceKind) string {
	for _, s := range t.Services {
		if types.ServiceKind(s.Kind) == kind {
			return s.Pretty
		}
	}
	return kind.String()
}

// TypeName returns the description of a type code, or empty when unknown
func (t *Topology) TypeName(code types.TypeCode) string {
	for _, pt := range t.Types {
		if types.TypeCode(pt.Code) == code {
			return pt.Name
		}
	}
	return ""
}

// HasTypeCode reports whether the code is declared in the topology.
// An empty declaration list accepts any valid code.
func (t *Topology) HasTypeCode(code types.TypeCode) bool {
	if len(t.Types) == 0 {
		return true
	}
	for _, pt := range t.Types {
		if types.TypeCode(pt.Code) == code {
			return true
		}
	}
	return false
}
