package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/presentation"
)

// resetCommandState clears the package globals that persist between
// cobra executions and isolates config resolution in a temp directory,
// so tests stay order-independent.
func resetCommandState(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)

	cfgFile = ""
	cfgPath = ""
	cfgErr = nil
	cfg = config.Config{}
	debugMode = false
	namespacesJSON = false
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestNamespaces_Tree(t *testing.T) {
	resetCommandState(t)

	out, err := executeCommand("namespaces")
	require.NoError(t, err)

	require.Contains(t, out, "app\n")
	require.Contains(t, out, "│   ├── home ● templates\n")
	require.Contains(t, out, "│   └── search ●\n")
	require.Contains(t, out, "    ├── analytics ● config, model\n")
	require.Contains(t, out, "    └── statusbar ● view\n")
	require.Contains(t, out, "4 registered:")
	require.Contains(t, out, "  app.screens.home\n")
	require.Contains(t, out, "  app.widgets.statusbar\n")
}

func TestNamespaces_WritesDefaultConfigOnFirstRun(t *testing.T) {
	resetCommandState(t)

	_, err := executeCommand("namespaces")
	require.NoError(t, err)

	info, statErr := os.Stat(config.LocalConfigPath)
	require.NoError(t, statErr, "first run should create the local config")
	require.False(t, info.IsDir())
}

func TestNamespaces_JSON(t *testing.T) {
	resetCommandState(t)

	out, err := executeCommand("namespaces", "--json")
	require.NoError(t, err)

	var dtos []presentation.NamespaceDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos))
	require.Len(t, dtos, 7, "root + two intermediates + four registered")

	byPath := make(map[string]presentation.NamespaceDTO, len(dtos))
	for _, dto := range dtos {
		byPath[dto.Path] = dto
	}
	require.True(t, byPath["app.screens.home"].Registered)
	require.Equal(t, []string{"templates"}, byPath["app.screens.home"].Members)
	require.False(t, byPath["app.screens"].Registered, "intermediates stay unregistered")
	require.Equal(t, []string{"config", "model"}, byPath["app.widgets.analytics"].Members)
}

func TestNamespaces_CustomConfigFile(t *testing.T) {
	resetCommandState(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace:\n  root: shop\n"), 0o600))

	out, err := executeCommand("namespaces", "--config", path)
	require.NoError(t, err)

	require.Contains(t, out, "shop\n")
	require.Contains(t, out, "  shop.screens.home\n")
}

func TestNamespaces_InvalidConfigFails(t *testing.T) {
	resetCommandState(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  sample_rate: 3.5\n"), 0o600))

	_, err := executeCommand("namespaces", "--config", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validating config")
}

func TestNamespaces_MissingExplicitConfigFails(t *testing.T) {
	resetCommandState(t)

	_, err := executeCommand("namespaces", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestVersionFlag(t *testing.T) {
	resetCommandState(t)
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })

	SetVersion("1.2.3 (commit: abc, built: today)")
	out, err := executeCommand("--version")
	require.NoError(t, err)
	require.Contains(t, out, "1.2.3")
}
