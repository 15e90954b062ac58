package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/cli"
	"github.com/ecobazaarx/ecoimpact/internal/config"
)

// setupCLITest isolates the command from the user's configuration and
// registers cleanup for global state. It returns the isolated home directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvProjectDir, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmdWithArgs("test", func() (string, error) { return t.TempDir(), nil })
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd(t *testing.T) {
	setupCLITest(t)

	root := cli.NewRootCmd("1.2.3")
	require.NotNil(t, root)
	require.Equal(t, "ecoimpact", root.Use)
	require.Equal(t, "1.2.3", root.Version)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"estimate", "reference", "insights", "serve", "config"})

	out, err := execute(t, "--help")
	require.NoError(t, err)
	require.Contains(t, out, "ecoimpact estimate --category Bag")
}
