package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, envs := range envAliases {
		for _, e := range envs {
			t.Setenv(e, "")
		}
	}
	return filepath.Join(t.TempDir(), "devpath.db")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSettingsDefaults(t *testing.T) {
	isolate(t)

	v, err := newViper("")
	require.NoError(t, err)
	s := settingsFrom(v)

	assert.Equal(t, 3001, s.Port)
	assert.Equal(t, 10, s.HoursPerWeek)
	assert.Equal(t, 2*time.Minute, s.LLM.Timeout)
	assert.Equal(t, 3, s.LLM.Retry.MaxAttempts)
	assert.False(t, s.LLM.Resolve(), "no key means generation is disabled")
}

func TestSettingsFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("DEVPATH_HOURS_PER_WEEK", "20")

	v, err := newViper("")
	require.NoError(t, err)
	s := settingsFrom(v)

	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, 20, s.HoursPerWeek)
	assert.Equal(t, "k", s.LLM.Gemini.APIKey)
	require.True(t, s.LLM.Resolve())
	assert.Equal(t, "gemini", s.LLM.Provider)
}

func TestSettingsPrefixedEnvWins(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DEVPATH_PORT", "9090")

	v, err := newViper("")
	require.NoError(t, err)
	assert.Equal(t, 9090, settingsFrom(v).Port)
}

func TestSettingsClampAttemptBudget(t *testing.T) {
	tests := map[string]int{"10": 3, "2": 2, "0": 1, "-4": 1}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			isolate(t)
			t.Setenv("DEVPATH_LLM_MAX_ATTEMPTS", in)

			v, err := newViper("")
			require.NoError(t, err)
			assert.Equal(t, want, settingsFrom(v).LLM.Retry.MaxAttempts)
		})
	}
}

func TestSettingsConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "devpath.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hours_per_week: 5\nllm:\n  timeout: 30s\n"), 0o644))

	v, err := newViper(path)
	require.NoError(t, err)
	s := settingsFrom(v)
	assert.Equal(t, 5, s.HoursPerWeek)
	assert.Equal(t, 30*time.Second, s.LLM.Timeout)

	_, err = newViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestCommandsWithoutRoadmap(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "--db", db, "checkin")
	require.NoError(t, err)
	assert.Contains(t, out, "Sequência: 1 dia(s)")

	out, err = execute(t, "--db", db, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum roadmap")

	out, err = execute(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Nível 1")

	_, err = execute(t, "--db", db, "estimate")
	assert.Error(t, err)

	_, err = execute(t, "--db", db, "toggle", "0", "1")
	assert.ErrorContains(t, err, "invalid stage")

	_, err = execute(t, "--db", db, "generate", "Backend", "Go")
	assert.ErrorContains(t, err, "generation is not configured")

	out, err = execute(t, "--db", db, "reset", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "apagados")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "devpath")
}
