package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/config"
)

// TestConfigInit_ProjectDir verifies that "config init" with --project-dir
// creates .ecoimpact/config.yaml and .ecoimpact/.gitignore in the project.
func TestConfigInit_ProjectDir(t *testing.T) {
	home := setupCLITest(t)
	project := t.TempDir()

	out, err := execute(t, "config", "init", "--project-dir", project)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, out, "Created .gitignore")

	projectDir := filepath.Join(project, ".ecoimpact")
	assert.FileExists(t, filepath.Join(projectDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(projectDir, ".gitignore"))
	assert.NoFileExists(t, filepath.Join(home, "config.yaml"), "global config must not be touched")

	_, err = execute(t, "config", "init", "--project-dir", project)
	require.ErrorContains(t, err, "already exists")

	out, err = execute(t, "config", "init", "--project-dir", project, "--force")
	require.NoError(t, err)
	assert.NotContains(t, out, "Created .gitignore", "existing .gitignore is kept")
}

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.FileExists(t, filepath.Join(home, "config.yaml"))

	_, err = execute(t, "config", "init")
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--global", "--project-dir", t.TempDir(), "--force")
	require.NoError(t, err)
}

func TestConfigShow_ProjectOverlay(t *testing.T) {
	setupCLITest(t)
	project := filepath.Join(t.TempDir(), ".ecoimpact")
	require.NoError(t, os.MkdirAll(project, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(project, "config.yaml"),
		[]byte("estimator:\n  batch_size: 25\n  concurrency: 2\n"), 0o600))

	out, err := execute(t, "config", "show", "--project-dir", project)
	require.NoError(t, err)
	assert.Contains(t, out, "batch_size: 25")
	assert.Contains(t, out, "default_format: table")
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	config.ResetGlobalConfigForTest()
	t.Setenv(config.EnvStoreDriver, "sqlite")
	_, err = execute(t, "config", "validate")
	require.ErrorContains(t, err, "store.dsn is required")
}
