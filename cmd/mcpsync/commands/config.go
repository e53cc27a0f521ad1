package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcpsync's own configuration",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default settings to the standard location
(or to --config if given). Refuses to overwrite an existing file.`,
	Example: `  mcpsync config init`,
	Args:    cobra.NoArgs,
	RunE:    runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the effective configuration",
	Example: `  mcpsync config show`,
	Args:    cobra.NoArgs,
	RunE:    runConfigShow,
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	if err := config.WriteDefault(path); err != nil {
		return errors.NewUserError(err, "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%sWrote %s%s\n", colorGreen, path, colorReset)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := fileutil.MarshalYAMLDoc(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
