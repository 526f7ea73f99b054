// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package config loads process configuration. Values come from flag
// defaults, then an optional YAML file, then flags set on the command line;
// later sources win.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/logging"
	"github.com/conlang-studio/studio/internal/store"
)

// Defaults.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultCookieName  = "studio_session"
	DefaultLogFormat   = logging.FormatJSON
	DefaultLogLevel    = "info"
)

// Config is the full process configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	HTTP     HTTPConfig     `koanf:"http" yaml:"http"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics"`
	Session  SessionConfig  `koanf:"session" yaml:"session"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL            string `koanf:"url" yaml:"url"`
	ConnectRetries uint64 `koanf:"connect_retries" yaml:"connect_retries"`
}

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// MetricsConfig configures the observability listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// SessionConfig configures session lifetime and the session cookie.
type SessionConfig struct {
	IdleTimeout   time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval" yaml:"sweep_interval"`
	CookieName    string        `koanf:"cookie_name" yaml:"cookie_name"`
	CookieSecure  bool          `koanf:"cookie_secure" yaml:"cookie_secure"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=warning,enum=error"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"database-url":           "database.url",
	"database-retries":       "database.connect_retries",
	"http-addr":              "http.addr",
	"metrics-addr":           "metrics.addr",
	"session-idle-timeout":   "session.idle_timeout",
	"session-sweep-interval": "session.sweep_interval",
	"session-cookie-name":    "session.cookie_name",
	"session-cookie-secure":  "session.cookie_secure",
	"log-format":             "log.format",
	"log-level":              "log.level",
}

// RegisterFlags adds every configuration flag to fs with its default.
// The database URL defaults to $DATABASE_URL.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	fs.Uint64("database-retries", store.DefaultConnectRetries, "connection attempts before giving up")
	fs.String("http-addr", DefaultHTTPAddr, "HTTP API listen address")
	fs.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.Duration("session-idle-timeout", auth.DefaultIdleTimeout, "session lifetime without activity")
	fs.Duration("session-sweep-interval", auth.DefaultSweepInterval, "how often expired sessions are deleted")
	fs.String("session-cookie-name", DefaultCookieName, "session cookie name")
	fs.Bool("session-cookie-secure", false, "mark the session cookie Secure")
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
}

// Load builds a Config from the flags registered by RegisterFlags and, when
// path is non-empty, a YAML file. The result is validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied config path
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
		if err := ValidateFile(data); err != nil {
			return nil, oops.With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	// Unchanged flags only fill keys the file left unset.
	flags := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	})
	if err := k.Load(flags, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Database.URL == "":
		return invalid("database.url", "database URL is required (set --database-url or DATABASE_URL)")
	case c.HTTP.Addr == "":
		return invalid("http.addr", "HTTP address is required")
	case c.Session.IdleTimeout <= 0:
		return invalid("session.idle_timeout", "session idle timeout must be positive")
	case c.Session.SweepInterval <= 0:
		return invalid("session.sweep_interval", "session sweep interval must be positive")
	case c.Session.CookieName == "":
		return invalid("session.cookie_name", "session cookie name is required")
	}
	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return invalid("log.format", err.Error())
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", err.Error())
	}
	return nil
}

func invalid(key, msg string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf("%s", msg)
}
