package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/report"
	"github.com/thoreinstein/mcpsync/internal/syncer"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// installedTargets resolves the sync targets, honoring config path overrides.
func installedTargets() ([]apps.Target, error) {
	targets := apps.InstalledTargets(cfg.PathOverrides())
	if len(targets) == 0 {
		return nil, errors.NewUserError(errors.ErrNoAppsDetected,
			"Run: mcpsync apps (to see what mcpsync looks for)")
	}
	return targets, nil
}

// allTargets resolves targets for every known app, installed or not.
func allTargets() []apps.Target {
	return apps.Targets(apps.DetectAll(cfg.PathOverrides()))
}

// buildSynchronizer wires a Synchronizer with the confirmer, reporter, and
// backup manager configured for this invocation.
func buildSynchronizer(cmd *cobra.Command, targets []apps.Target) *syncer.Synchronizer {
	out := cmd.OutOrStdout()

	opts := []syncer.Option{
		syncer.WithLogger(logging.FromContext(cmd.Context())),
		syncer.WithReporter(report.NewPrinter(out, logging.SupportsColor(out))),
		syncer.WithConfirmer(report.NewPrompter(out, cmd.InOrStdin())),
	}

	if cfg.Backup.Enabled {
		mgr := backup.NewManager(backup.WithRetentionCount(cfg.Backup.RetentionCount))
		opts = append(opts, syncer.WithBackup(func(app, path string) error {
			_, err := mgr.Backup(app, path)
			return err
		}))
	}

	return syncer.New(targets, opts...)
}
