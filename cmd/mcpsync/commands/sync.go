package commands

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/report"
	"github.com/thoreinstein/mcpsync/internal/syncer"
)

var (
	syncForce   bool
	syncOverlay string
)

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false,
		"overwrite targets even when servers would be lost")
	syncCmd.Flags().StringVar(&syncOverlay, "overlay", "",
		"JSON file deep-merged into the canonical config instead of syncing from a source")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Synchronize MCP servers from one config to all apps",
	Long: `Synchronize MCP server definitions from a source to every installed
application.

The source is an application name (see "mcpsync apps") or a path to any
JSON config file in a supported dialect. With no source, an interactive
picker is shown.

If the sync would remove servers an application currently has, mcpsync
asks for confirmation first. Use --force to skip the prompt.`,
	Example: `  # Use Claude Desktop as the source of truth
  mcpsync sync Claude

  # Sync from an arbitrary file
  mcpsync sync ./team-mcp.json

  # Merge extra servers on top of the current canonical config
  mcpsync sync --overlay extra-servers.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	targets, err := installedTargets()
	if err != nil {
		return err
	}

	s := buildSynchronizer(cmd, targets)

	if syncOverlay != "" {
		if len(args) > 0 {
			return errors.NewUserError(nil, "use either a source or --overlay, not both")
		}
		return runOverlaySync(cmd, s)
	}

	source := ""
	if len(args) > 0 {
		source = args[0]
	} else {
		source, err = pickSource(s)
		if err != nil {
			return err
		}
		if source == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "sync aborted")
			return nil
		}
	}

	ok, err := s.SyncFromSource(source, syncForce)
	if err != nil {
		if errors.Is(err, errors.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "sync cancelled")
			return nil
		}
		if errors.Is(err, errors.ErrSourceNotFound) || errors.Is(err, errors.ErrSourceEmpty) {
			return errors.NewUserError(err, "Run: mcpsync status (to see which configs have servers)")
		}
		return errors.NewSystemError(err, "check that the source file is readable JSON")
	}
	if !ok {
		return errors.NewExitError(errors.New("sync did not fully succeed"), errors.ExitSystem)
	}
	return nil
}

// runOverlaySync deep-merges a JSON file into the canonical config and
// writes the result to every target.
func runOverlaySync(cmd *cobra.Command, s *syncer.Synchronizer) error {
	load := syncer.LoadDocument(syncOverlay)
	switch load.State {
	case syncer.StateAbsent:
		return errors.NewUserError(errors.Newf("overlay file not found: %s", syncOverlay), "")
	case syncer.StateParseError:
		return errors.NewUserError(load.Err, "the overlay must be a JSON object")
	}

	results := s.ApplySync(load.Doc, syncForce)
	allInSync, validation := s.ValidateAll(nil)

	out := cmd.OutOrStdout()
	printer := report.NewPrinter(out, logging.SupportsColor(out))
	printer.Report(syncOverlay, results, validation)

	for _, r := range results {
		if !r.Success {
			return errors.NewExitError(errors.New("sync did not fully succeed"), errors.ExitSystem)
		}
	}
	if !allInSync {
		return errors.NewExitError(errors.New("some targets failed validation"), errors.ExitSystem)
	}
	return nil
}

// pickSource shows an interactive fuzzy picker over the sync targets.
// Returns an empty string when the picker is aborted.
func pickSource(s *syncer.Synchronizer) (string, error) {
	targets := s.Targets()

	idx, err := fuzzyfinder.Find(
		targets,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", targets[i].Name, targets[i].Path)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			t := targets[i]
			return fmt.Sprintf("App: %s\nDialect: %s\nConfig: %s",
				t.Name, t.Writer.Name(), t.Path)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive source selection failed")
	}

	return targets[idx].Name, nil
}
