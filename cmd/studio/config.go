// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/conlang-studio/studio/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration with secrets redacted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				cmd.Print(string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the JSON Schema of the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := config.GenerateSchema()
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			},
		},
	)
	return cmd
}
