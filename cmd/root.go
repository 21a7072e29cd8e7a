// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "db-federation-service"

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Federates users stored in external SQL databases into the identity platform",
	Long: `db-federation-service exposes users kept in external SQL databases to the
identity platform: lookups, credential checks and synchronization into the
local identity store are driven by per-instance SQL templates.`,
}

// Execute runs the root command, it exits the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
