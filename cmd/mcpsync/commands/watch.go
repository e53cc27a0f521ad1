package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/watch"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"debounce window before reacting to a change (default: from config, 2s)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch config files and re-sync on changes",
	Long: `Watch every installed application's config directory and re-synchronize
whenever a config file is edited.

The app whose file changed becomes the sync source. Rapid successive
edits are coalesced within the debounce window, and changes written by
mcpsync itself are recognized and ignored.

Runs until interrupted (Ctrl-C).`,
	Example: `  # Watch with defaults
  mcpsync watch

  # React faster to edits
  mcpsync watch --debounce 500ms

  # Only watch specific apps (set watch_apps in the config file)
  mcpsync watch --config ~/.config/mcpsync/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	targets, err := installedTargets()
	if err != nil {
		return err
	}

	// watch_apps narrows only which files are watched; a change in a watched
	// app is still written to every installed target.
	watchCount := len(targets)
	if len(cfg.WatchApps) > 0 {
		installed := make(map[string]bool, len(targets))
		for _, t := range targets {
			installed[t.Name] = true
		}
		watchCount = 0
		for _, app := range cfg.WatchApps {
			if installed[app] {
				watchCount++
			}
		}
		if watchCount == 0 {
			return errors.NewUserError(errors.ErrNoAppsDetected,
				"check watch_apps in your config file")
		}
	}

	s := buildSynchronizer(cmd, targets)

	delay := watchDebounce
	if delay == 0 {
		delay = cfg.DebounceDelay
	}

	log := logging.FromContext(cmd.Context())
	daemon, err := watch.NewDaemon(s,
		watch.WithDelay(delay),
		watch.WithLogger(log),
		watch.WithWatchApps(cfg.WatchApps))
	if err != nil {
		return errors.NewSystemError(err, "check that the config directories are accessible")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d app(s), syncing %d, debounce %s. Press Ctrl-C to stop.\n",
		watchCount, len(targets), delay)

	return daemon.Run(ctx)
}
