package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tujuhre12/togglelist/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the project configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the project config file",
	Long: heredoc.Doc(`
		Set a value in the project configuration file. Values are parsed as
		JSON when possible and stored as strings otherwise. The file is only
		written when the resulting configuration is valid.
	`),
	Example: heredoc.Doc(`
		togglelist config set overscan 4
		togglelist config set unique_labels true
		togglelist config set metrics_address localhost:9090
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd(cmd)
		if err != nil {
			return err
		}
		// unvalidated, so a broken file can still be fixed from here
		cfg, err := config.Read(cwd)
		if err != nil {
			return err
		}

		key, value := args[0], parseValue(args[1])
		if err := cfg.SetConfigField(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, cfg.ProjectConfigPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
