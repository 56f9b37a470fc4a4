package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{EnvProjectID, EnvAPIKey, EnvEmail, EnvPassword, EnvEmulatorHost} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), FileName)
	data := `
[firebase]
project_id = "golf-memo"
api_key = "AIza-test"
credentials_file = "sa.json"

[auth]
email = "player@example.com"

[server]
port = 9000

[log]
level = "debug"
development = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "golf-memo", cfg.Firebase.ProjectID)
	assert.Equal(t, "AIza-test", cfg.Firebase.APIKey)
	assert.Equal(t, "sa.json", cfg.Firebase.CredentialsFile)
	assert.Equal(t, "player@example.com", cfg.Auth.Email)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.OpenBrowser)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	for name, data := range map[string]string{
		"syntax": "[server\nport = 1",
		"port":   "[server]\nport = 70000",
		"level":  "[log]\nlevel = \"loud\"",
	} {
		data := data
		t.Run(name, func(tr *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(tr, os.WriteFile(path, []byte(data), 0o600))

			_, err := Load(path)
			assert.Error(tr, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvProjectID:    "env-project",
		EnvEmail:        "env@example.com",
		EnvPassword:     "secret",
		EnvEmulatorHost: "localhost:8080",
		EnvAPIKey:       "",
	}

	cfg := DefaultConfig()
	cfg.Firebase.APIKey = "from-file"
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "env-project", cfg.Firebase.ProjectID)
	assert.Equal(t, "from-file", cfg.Firebase.APIKey)
	assert.Equal(t, "localhost:8080", cfg.Firebase.EmulatorHost)
	assert.Equal(t, "env@example.com", cfg.Auth.Email)
	assert.Equal(t, "secret", cfg.Auth.Password)
}

func TestSaveOmitsPassword(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := DefaultConfig()
	cfg.Firebase.ProjectID = "golf-memo"
	cfg.Auth.Email = "player@example.com"
	cfg.Auth.Password = "secret"
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "golf-memo", loaded.Firebase.ProjectID)
	assert.Equal(t, "player@example.com", loaded.Auth.Email)
	assert.Empty(t, loaded.Auth.Password)
}
