// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conlang-studio/studio/internal/config"
	"github.com/conlang-studio/studio/internal/logging"
	"github.com/conlang-studio/studio/internal/xdg"
)

const serviceName = "studio"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the studio CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Conlang Studio - a project tracker for constructed languages",
		Long: `Conlang Studio tracks constructed-language projects and their
language families. Each user sees and edits only their own projects.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/studio/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(deps))
	cmd.AddCommand(newMigrateCmd(deps))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig reads configuration for cmd and installs the process logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path := configFile
	if path == "" {
		var err error
		if path, err = xdg.DefaultConfigFile(); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level) //nolint:errcheck // validated
	logger := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}
