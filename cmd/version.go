// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/db-federation-service/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the service",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serviceName, version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
