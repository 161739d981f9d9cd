package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/projektwerk/stagehand/pkg/cli/config"
	"github.com/projektwerk/stagehand/pkg/domain/types"
)

func writeTopology(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topology.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTopology(t *testing.T) {
	t.Run("valid topology", func(t *testing.T) {
		path := writeTopology(t, `
[[service]]
kind = "slack"
pretty = "Slack"

[[service]]
kind = "drive"
pretty = "Drive"

[[project_type]]
code = "P"
name = "Product"

[[template]]
kind = "slack"

[[template]]
kind = "drive"
qualifier = "intern"
`)

		topology := gt.R1(config.LoadTopology(path)).NoError(t)
		gt.Array(t, topology.Order()).Equal([]types.ServiceKind{
			types.ServiceKindSlack,
			types.ServiceKindDrive,
		})
		gt.Value(t, topology.Pretty(types.ServiceKindDrive)).Equal("Drive")
		gt.Bool(t, topology.HasTypeCode("P")).True()
		gt.Bool(t, topology.HasTypeCode("X")).False()
		gt.Number(t, len(topology.Template)).Equal(2)
		gt.Value(t, topology.Template[1].Qualifier).Equal("intern")
	})

	t.Run("unknown service kind is rejected", func(t *testing.T) {
		path := writeTopology(t, `
[[service]]
kind = "telex"
pretty = "Telex"
`)

		_, err := config.LoadTopology(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid type code is rejected", func(t *testing.T) {
		path := writeTopology(t, `
[[project_type]]
code = "PP"
name = "Product"
`)

		_, err := config.LoadTopology(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadTopology(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Value(t, err).NotNil()
	})
}
