// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlang-studio/studio/internal/config"
	"github.com/conlang-studio/studio/pkg/errutil"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.String("config", "", "config file path")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studio")

	cfg, err := config.Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/studio", cfg.Database.URL)
	assert.Equal(t, uint64(5), cfg.Database.ConnectRetries)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, config.DefaultMetricsAddr, cfg.Metrics.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "studio_session", cfg.Session.CookieName)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/studio")
	path := writeYAML(t, `
database:
  url: postgres://file/studio
  connect_retries: 2
http:
  addr: 0.0.0.0:8081
session:
  idle_timeout: 2h
  cookie_secure: true
log:
  format: text
`)

	cfg, err := config.Load(path, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/studio", cfg.Database.URL)
	assert.Equal(t, uint64(2), cfg.Database.ConnectRetries)
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 10*time.Minute, cfg.Session.SweepInterval, "unset keys keep flag defaults")
}

func TestLoad_SetFlagsOverrideFile(t *testing.T) {
	path := writeYAML(t, `
database:
  url: postgres://file/studio
http:
  addr: 0.0.0.0:8081
`)

	cfg, err := config.Load(path, newFlags(t, "--http-addr", "127.0.0.1:9999", "--session-idle-timeout", "30m"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "postgres://file/studio", cfg.Database.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), newFlags(t))
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load("", newFlags(t))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Database: config.DatabaseConfig{URL: "postgres://localhost/studio"},
			HTTP:     config.HTTPConfig{Addr: ":8080"},
			Session: config.SessionConfig{
				IdleTimeout:   time.Hour,
				SweepInterval: time.Minute,
				CookieName:    "studio_session",
			},
			Log: config.LogConfig{Format: "json", Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"metrics disabled", func(c *config.Config) { c.Metrics.Addr = "" }, ""},
		{"no http addr", func(c *config.Config) { c.HTTP.Addr = "" }, "http.addr"},
		{"zero idle timeout", func(c *config.Config) { c.Session.IdleTimeout = 0 }, "session.idle_timeout"},
		{"negative sweep", func(c *config.Config) { c.Session.SweepInterval = -time.Second }, "session.sweep_interval"},
		{"no cookie name", func(c *config.Config) { c.Session.CookieName = "" }, "session.cookie_name"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.wantKey)
		})
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeYAML(t, `
database:
  url: postgres://file/studio
sesion:
  idle_timeout: 2h
`)

	_, err := config.Load(path, newFlags(t))
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, err, "path", path)
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"empty document", "", false},
		{"full document", `
database:
  url: postgres://localhost/studio
  connect_retries: 3
http:
  addr: ":8080"
metrics:
  addr: ""
session:
  idle_timeout: 24h
  sweep_interval: 1m30s
  cookie_name: sid
  cookie_secure: true
log:
  format: text
  level: debug
`, false},
		{"malformed YAML", "database: [", true},
		{"unknown nested key", "http:\n  port: 8080\n", true},
		{"duration as number", "session:\n  idle_timeout: 60\n", true},
		{"bad duration unit", "session:\n  idle_timeout: 2days\n", true},
		{"unsupported log format", "log:\n  format: xml\n", true},
		{"retries as string", "database:\n  connect_retries: many\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateFile([]byte(tt.body))
			if tt.wantErr {
				errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	data, err := config.GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, config.SchemaID, schema["$id"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"database", "http", "metrics", "session", "log"} {
		assert.Contains(t, props, key)
	}
}

func TestConfig_YAMLRedactsPassword(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"url form", "postgres://studio:hunter2@db:5432/studio", "postgres://studio:xxxxx@db:5432/studio"},
		{"keyword form", "host=db user=studio password=hunter2 dbname=studio", "host=db user=studio password=xxxxx dbname=studio"},
		{"no password", "postgres://db/studio", "postgres://db/studio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Database: config.DatabaseConfig{URL: tt.url},
				Session:  config.SessionConfig{IdleTimeout: 24 * time.Hour},
			}

			data, err := cfg.YAML()
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			assert.NotContains(t, string(data), "hunter2")
			assert.Contains(t, string(data), "idle_timeout: 24h0m0s")
			assert.Equal(t, tt.url, cfg.Database.URL, "original is unchanged")
		})
	}
}
