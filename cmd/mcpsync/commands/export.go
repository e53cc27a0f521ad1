package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/export"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/syncer"
)

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json",
		"output format: json, yaml, toml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <source>",
	Short: "Export an app's MCP config in a portable format",
	Long: `Export the MCP server definitions of one application (or any JSON config
file in a supported dialect) as JSON, YAML, or TOML.

Useful for checking a config into version control or sharing it with a
team regardless of which app each person uses.`,
	Example: `  # Print Cursor's servers as YAML
  mcpsync export Cursor --format yaml

  # Save Claude's servers for the team
  mcpsync export Claude -f json -o team-mcp.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	source := args[0]
	path := source
	for _, t := range allTargets() {
		if t.Name == source {
			path = t.Path
			break
		}
	}

	load := syncer.LoadDocument(path)
	switch load.State {
	case syncer.StateAbsent:
		return errors.NewUserError(errors.Wrapf(errors.ErrSourceNotFound, "%s", path),
			"Run: mcpsync apps")
	case syncer.StateParseError:
		return errors.NewUserError(load.Err, "")
	}

	adapter := format.DetectFormat(load.Doc)
	canonical := adapter.Extract(load.Doc)
	if len(format.Servers(canonical)) == 0 {
		return errors.NewUserError(errors.Wrapf(errors.ErrSourceEmpty, "%s", path), "")
	}

	w := cmd.OutOrStdout()
	if exportOutput != "" {
		if err := os.MkdirAll(filepath.Dir(exportOutput), 0o755); err != nil {
			return errors.NewSystemError(err, "")
		}
		file, err := os.Create(exportOutput)
		if err != nil {
			return errors.NewSystemError(err, "")
		}
		defer file.Close()
		w = file
	}

	return export.Write(w, canonical, f)
}
