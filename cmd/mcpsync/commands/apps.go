package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/apps"
)

func init() {
	rootCmd.AddCommand(appsCmd)
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List supported applications and where their configs live",
	Long: `List every application mcpsync knows how to synchronize, whether it is
installed on this machine, and the config file path that would be used.

An application counts as installed when its data directory exists, even
if it has no MCP config file yet.`,
	Example: `  mcpsync apps`,
	Args:    cobra.NoArgs,
	RunE:    runApps,
}

func runApps(cmd *cobra.Command, _ []string) error {
	results := apps.DetectAll(cfg.PathOverrides())
	w := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sAPP%s\t%sSTATUS%s\t%sDIALECT%s\t%sCONFIG%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, r := range results {
		status := "not installed"
		statusColor := colorGray
		if r.Status == apps.StatusInstalled {
			status = "installed"
			statusColor = colorGreen
		}

		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			colorCyan, r.Name, colorReset,
			statusColor, status, colorReset,
			r.Dialect,
			truncate(r.ConfigPath, 60))
	}

	return tw.Flush()
}
