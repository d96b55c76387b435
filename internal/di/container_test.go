package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/phish-detector/internal/adapters/filter"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
)

func TestBuildCLIContainer(t *testing.T) {
	flags := &CLIFlags{ModelPath: filepath.Join(t.TempDir(), "missing.json"), JSONOutput: true}

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config, service *core.DetectorService, cli *filter.CliFilter) {
		assert.Equal(t, "cli", cfg.GetString("server.frontend"))
		assert.True(t, cfg.GetBool("cli.json"))
		assert.Equal(t, flags.ModelPath, cfg.GetModel().Path)
		assert.False(t, service.ClassifierAvailable())
		assert.NotNil(t, cli)
	})
	assert.NoError(t, err)
}

func TestBuildCLIContainer_MissingConfigFile(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.NoError(t, err)

	err = container.Invoke(func(*config.Config) {})
	assert.Error(t, err)
}
