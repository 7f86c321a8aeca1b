package environment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PX4/bloaty-action/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolean(t *testing.T) {
	accepted := []string{"true", "True", "1"}
	for _, v := range accepted {
		assert.True(t, environment.ParseBoolean(v), "expected %q to be truthy", v)
	}

	rejected := []string{"", "false", "False", "0", "TRUE", "yes", "on", " true", "1 "}
	for _, v := range rejected {
		assert.False(t, environment.ParseBoolean(v), "expected %q to be falsy", v)
	}
}

// unsetAll clears the action inputs for the duration of the test.
func unsetAll(t *testing.T) {
	for _, k := range []string{
		environment.VerboseVar,
		environment.OutputToSummaryVar,
		environment.SummaryTitleVar,
		environment.GithubActions,
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestReadEnvConfig_Defaults(t *testing.T) {
	unsetAll(t)
	chdir(t, t.TempDir())

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.OutputToSummary)
	assert.Equal(t, environment.DefaultSummaryTitle, cfg.SummaryTitle)
}

func TestReadEnvConfig_FromEnvironment(t *testing.T) {
	unsetAll(t)
	chdir(t, t.TempDir())
	t.Setenv(environment.VerboseVar, "True")
	t.Setenv(environment.OutputToSummaryVar, "1")
	t.Setenv(environment.SummaryTitleVar, "firmware size")

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.OutputToSummary)
	assert.Equal(t, "firmware size", cfg.SummaryTitle)
}

func TestReadEnvConfig_EmptyTitleIsKept(t *testing.T) {
	unsetAll(t)
	chdir(t, t.TempDir())
	t.Setenv(environment.SummaryTitleVar, "")

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.SummaryTitle)
}

func TestReadEnvConfig_DotEnvFile(t *testing.T) {
	unsetAll(t)
	for _, k := range []string{environment.GithubOutput, environment.GithubStepSummary} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	chdir(t, dir)

	outPath := filepath.Join(dir, "output.txt")
	dotenv := "GITHUB_OUTPUT=" + outPath + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0600))

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, outPath, os.Getenv(environment.GithubOutput))

	_, ok := os.LookupEnv(environment.GithubStepSummary)
	assert.False(t, ok)
}

func TestReadEnvConfig_DotEnvDoesNotOverride(t *testing.T) {
	unsetAll(t)
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(environment.GithubOutput, "/from/runner")

	dotenv := "GITHUB_OUTPUT=/from/dotenv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0600))

	_, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/runner", os.Getenv(environment.GithubOutput))
}

func TestReadEnvConfig_BrokenDotEnvIsNotFatal(t *testing.T) {
	unsetAll(t)
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(environment.OutputToSummaryVar, "true")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MY-APP-KEY=1\n"), 0600))

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	require.Error(t, cfg.DotEnvErr)
	assert.Contains(t, cfg.DotEnvErr.Error(), "MY-APP-KEY")
	assert.True(t, cfg.OutputToSummary)
	assert.Equal(t, environment.DefaultSummaryTitle, cfg.SummaryTitle)
}

func TestReadEnvConfig_DotEnvIgnoredInGithubActions(t *testing.T) {
	unsetAll(t)
	t.Setenv(environment.GithubOutput, "")
	require.NoError(t, os.Unsetenv(environment.GithubOutput))
	t.Setenv(environment.GithubActions, "true")
	dir := t.TempDir()
	chdir(t, dir)

	dotenv := "GITHUB_OUTPUT=/from/dotenv\nMY-APP-KEY=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0600))

	cfg, err := environment.ReadEnvConfig()
	require.NoError(t, err)
	assert.NoError(t, cfg.DotEnvErr)

	_, ok := os.LookupEnv(environment.GithubOutput)
	assert.False(t, ok)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
