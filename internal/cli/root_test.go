package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/internal/db"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// testCmd builds a bare command carrying just the timeout flag, which is
// the only flag buildLoadConfig inspects through cobra.
func testCmd(t *testing.T, timeoutArg string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().DurationVar(&loadFlags.timeout, "timeout", rawload.DefaultTimeout, "")
	if timeoutArg != "" {
		require.NoError(t, cmd.Flags().Set("timeout", timeoutArg))
	}
	return cmd
}

func resetFlags(t *testing.T) {
	t.Helper()
	old := loadFlags
	loadFlags = loadFlagValues{}
	t.Cleanup(func() { loadFlags = old })
}

func TestBuildLoadConfig_Defaults(t *testing.T) {
	resetFlags(t)

	cfg, connCfg, err := buildLoadConfig(testCmd(t, ""), nil, &db.EnvVars{}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, rawload.DefaultDataPath, cfg.DataPath)
	assert.False(t, cfg.ForceReload)
	assert.Equal(t, rawload.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, rawload.DefaultDatabase, cfg.DatabaseName)
	assert.Contains(t, cfg.ConnectionString, "localhost:5432/saas_analytics")
	assert.Equal(t, rawload.DefaultHost, connCfg.Host)
}

func TestBuildLoadConfig_PositionalArgWinsForDataPath(t *testing.T) {
	resetFlags(t)
	loadFlags.dataPath = "./flagdir"
	env := &db.EnvVars{DataPath: "./envdir"}

	cfg, _, err := buildLoadConfig(testCmd(t, ""), []string{"./argdir"}, env, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "./argdir", cfg.DataPath)
}

func TestBuildLoadConfig_EnvDataPathOverYaml(t *testing.T) {
	resetFlags(t)
	env := &db.EnvVars{DataPath: "./envdir"}
	project := &config.ProjectConfig{DataPath: "./yamldir"}

	cfg, _, err := buildLoadConfig(testCmd(t, ""), nil, env, project, false)
	require.NoError(t, err)
	assert.Equal(t, "./envdir", cfg.DataPath)
}

func TestBuildLoadConfig_ForceReloadFromEnv(t *testing.T) {
	resetFlags(t)

	cfg, _, err := buildLoadConfig(testCmd(t, ""), nil, &db.EnvVars{ForceReload: "1"}, nil, false)
	require.NoError(t, err)
	assert.True(t, cfg.ForceReload)
}

func TestBuildLoadConfig_YamlTimeoutBelowFlag(t *testing.T) {
	resetFlags(t)
	project := &config.ProjectConfig{Timeout: "45s"}

	cfg, _, err := buildLoadConfig(testCmd(t, ""), nil, &db.EnvVars{}, project, false)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Timeout)

	resetFlags(t)
	cfg, _, err = buildLoadConfig(testCmd(t, "90s"), nil, &db.EnvVars{}, project, false)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestBuildLoadConfig_InvalidYamlTimeout(t *testing.T) {
	resetFlags(t)
	project := &config.ProjectConfig{Timeout: "soon"}

	_, _, err := buildLoadConfig(testCmd(t, ""), nil, &db.EnvVars{}, project, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, rawload.ErrInvalidConfig)
}

func TestRootCommand_Surface(t *testing.T) {
	assert.Equal(t, "rawload [data_path]", rootCmd.Use)
	assert.NotNil(t, rootCmd.Flags().Lookup("force-reload"))
	assert.NotNil(t, rootCmd.Flags().Lookup("data"))
	// No password flag, by policy.
	assert.Nil(t, rootCmd.Flags().Lookup("password"))

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "version")
}
