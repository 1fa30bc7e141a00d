package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tujuhre12/togglelist/internal/config"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by togglelist",
	Long: heredoc.Doc(`
		Print the directories where togglelist reads its global configuration
		and writes its logs for the current project.
	`),
	Example: heredoc.Doc(`
		# Print all directories
		togglelist dirs

		# Print only the config directory
		togglelist dirs --config

		# Print only the data directory
		togglelist dirs --data
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		configOnly, _ := cmd.Flags().GetBool("config")
		dataOnly, _ := cmd.Flags().GetBool("data")

		if configOnly && dataOnly {
			return fmt.Errorf("cannot specify both --config and --data flags")
		}

		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		configDir := filepath.Dir(config.GlobalConfig())
		dataDir := cfg.DataDir()

		if configOnly {
			fmt.Fprintln(out, configDir)
			return nil
		}

		if dataOnly {
			fmt.Fprintln(out, dataDir)
			return nil
		}

		// Print both by default
		fmt.Fprintf(out, "Config directory: %s\n", configDir)
		fmt.Fprintf(out, "Data directory:   %s\n", dataDir)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.Flags().Bool("config", false, "Print only the config directory")
	dirsCmd.Flags().Bool("data", false, "Print only the data directory")
}
