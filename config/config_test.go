package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", cfg.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, "none", cfg.Tracing.Exporter)
	assert.Equal(t, "trellis-mcp", cfg.Tracing.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRELLIS_API_KEY", "key-123")
	t.Setenv("TRELLIS_API_BASE", "https://api.example.test/")
	t.Setenv("PROJECT_ID", "proj_1")
	t.Setenv("WORKFLOW_ID", "wf_1")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "https://api.example.test", cfg.APIBase)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, ":8080", cfg.ListenAddr())

	pid, err := cfg.RequireProjectID("")
	require.NoError(t, err)
	assert.Equal(t, "proj_1", pid)
	wid, err := cfg.RequireWorkflowID()
	require.NoError(t, err)
	assert.Equal(t, "wf_1", wid)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "trellis-mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\napi_base: https://file.test\nworkflow_id: wf_file\nlog:\n  level: debug\n"), 0o600))
	t.Setenv("WORKFLOW_ID", "wf_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "wf_env", cfg.WorkflowID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	err := (&Config{APIBase: "https://x"}).Validate()
	var ce *model.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "TRELLIS_API_KEY not found in environment variables", err.Error())

	err = (&Config{APIKey: "k"}).Validate()
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "TRELLIS_API_BASE", ce.Setting)
}

func TestRequireIDs(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.RequireProjectID("")
	assert.EqualError(t, err, "project_id not provided and PROJECT_ID not found in environment variables")

	pid, err := cfg.RequireProjectID("proj_override")
	require.NoError(t, err)
	assert.Equal(t, "proj_override", pid)

	_, err = cfg.RequireWorkflowID()
	assert.EqualError(t, err, "WORKFLOW_ID not found in environment variables")
}

func TestRequestTimeoutFallback(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Config{RequestTimeoutSeconds: -1}).RequestTimeout())

	cases := map[string]time.Duration{
		"thirty": 30 * time.Second,
		"45s":    30 * time.Second,
		"-5":     30 * time.Second,
		" 12 ":   12 * time.Second,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			t.Setenv(constants.EnvRequestTimeout, raw)
			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, want, cfg.RequestTimeout())
		})
	}
}

func TestInvalidPortFallsBack(t *testing.T) {
	t.Setenv(constants.EnvPort, "http")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ListenAddr())
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIKey: "secret"}
	assert.Equal(t, "****", cfg.Redacted().APIKey)
	assert.Equal(t, "secret", cfg.APIKey)
}
