// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/version"
)

func newSyncCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{}
	cmd.Flags().String("instance", "", "")
	cmd.Flags().String("instances-file", "", "")
	cmd.Flags().String("dsn", "", "")

	for k, v := range flags {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("failed to set flag %s: %v", k, err)
		}
	}

	return cmd
}

func TestSyncCmdRequiresInstance(t *testing.T) {
	if err := runSync(newSyncCmd(t, nil)); err == nil {
		t.Fatal("expected error when instance is empty")
	}
}

func TestSyncCmdMissingInstancesFile(t *testing.T) {
	cmd := newSyncCmd(t, map[string]string{
		"instance":       "erp",
		"instances-file": filepath.Join(t.TempDir(), "missing.yaml"),
	})

	if err := runSync(cmd); err == nil {
		t.Fatal("expected error for a missing instances file")
	}
}

func TestSyncCmdUnknownInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instances.yaml")
	if err := os.WriteFile(path, []byte("instances: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write instances file: %v", err)
	}

	cmd := newSyncCmd(t, map[string]string{"instance": "erp", "instances-file": path})

	err := runSync(cmd)
	if err == nil || !strings.Contains(err.Error(), `"erp"`) {
		t.Fatalf("expected unknown instance error, got %v", err)
	}
}

func TestSelectInstance(t *testing.T) {
	instances := []config.InstanceSpec{{ID: "crm"}, {ID: "erp"}}

	spec, err := selectInstance(instances, "erp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec != &instances[1] {
		t.Fatal("expected a pointer into the loaded instances")
	}

	if _, err := selectInstance(instances, "hr"); err == nil {
		t.Fatal("expected error for an unknown instance")
	}
}

func TestMigrateCmdRequiresDSN(t *testing.T) {
	t.Setenv("DSN", "")

	cmd := &cobra.Command{}
	cmd.Flags().String("dsn", "", "")

	if err := runMigrate(cmd, "up"); err == nil {
		t.Fatal("expected error without a DSN")
	}
}

func TestVersionCmd(t *testing.T) {
	out := new(bytes.Buffer)

	versionCmd.SetOut(out)
	versionCmd.Run(versionCmd, nil)

	if !strings.Contains(out.String(), version.Version) {
		t.Fatalf("expected version in output, got %q", out.String())
	}
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	for _, name := range []string{"serve", "sync", "migrate", "version"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("expected %s subcommand, got %v, %v", name, c, err)
		}
	}
}
