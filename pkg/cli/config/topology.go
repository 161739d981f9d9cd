package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/projektwerk/stagehand/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// Topology holds the CLI flag for the topology configuration file
type Topology struct {
	path string
}

// Flags returns CLI flags for topology configuration
func (t *Topology) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "topology",
			Usage:       "Path to the TOML topology configuration",
			Category:    "Topology",
			Sources:     cli.EnvVars("STAGEHAND_TOPOLOGY"),
			Destination: &t.path,
		},
	}
}

// Path returns the configured file path
func (t *Topology) Path() string {
	return t.path
}

// Configure loads and validates the topology file. Without a path it
// returns an empty topology, which leaves dispatch in creation order
// and disables template cloning beyond the per-kind default.
func (t *Topology) Configure() (*domainConfig.Topology, error) {
	if t.path == "" {
		return &domainConfig.Topology{}, nil
	}
	return LoadTopology(t.path)
}

// LoadTopology loads the topology configuration from a TOML file
func LoadTopology(path string) (*domainConfig.Topology, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read topology file", goerr.V("path", path))
	}

	var topology domainConfig.Topology
	if err := toml.Unmarshal(data, &topology); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML topology", goerr.V("path", path))
	}

	if err := topology.Validate(); err != nil {
		return nil, goerr.Wrap(err, "topology validation failed", goerr.V("path", path))
	}

	return &topology, nil
}
