package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

func init() {
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage config file backups",
	Long: `Manage the backups mcpsync takes of application config files before
overwriting them.

Backups are stored per app with a timestamped ID and verified against a
SHA-256 digest on restore.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var backupListCmd = &cobra.Command{
	Use:     "list <app>",
	Short:   "List backups for an application",
	Example: `  mcpsync backup list Claude`,
	Args:    cobra.ExactArgs(1),
	RunE:    runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <app> <backup-id>",
	Short: "Restore an application's config from a backup",
	Example: `  # Find the ID first
  mcpsync backup list Claude

  # Put the file back
  mcpsync backup restore Claude 20260829T101500.123456789`,
	Args: cobra.ExactArgs(2),
	RunE: runBackupRestore,
}

func runBackupList(cmd *cobra.Command, args []string) error {
	app := args[0]
	if !paths.ValidApp(app) {
		return errors.NewUserError(errors.Wrapf(errors.ErrUnknownApp, "%q", app),
			"Run: mcpsync apps")
	}

	mgr := backup.NewManager()
	manifests, err := mgr.List(app)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No backups for %s\n", app)
			return nil
		}
		return errors.NewSystemError(err, "")
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID%s\t%sCREATED%s\t%sFILE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\n",
			colorCyan, m.ID, colorReset,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			m.Filename)
	}
	return tw.Flush()
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	app, id := args[0], args[1]
	if !paths.ValidApp(app) {
		return errors.NewUserError(errors.Wrapf(errors.ErrUnknownApp, "%q", app),
			"Run: mcpsync apps")
	}

	mgr := backup.NewManager()
	if err := mgr.Restore(app, id); err != nil {
		switch {
		case errors.Is(err, backup.ErrNoBackupsFound):
			return errors.NewUserError(err, "Run: mcpsync backup list "+app)
		case errors.Is(err, backup.ErrBackupCorrupted):
			return errors.NewSystemError(err, "the stored backup no longer matches its manifest")
		default:
			return errors.NewSystemError(err, "")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%sRestored %s from backup %s%s\n",
		colorGreen, app, id, colorReset)
	return nil
}
