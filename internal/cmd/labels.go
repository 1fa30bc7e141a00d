package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tujuhre12/togglelist/internal/items"
	"github.com/tujuhre12/togglelist/internal/tui"
	"gopkg.in/yaml.v3"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Print generated item labels",
	Long: heredoc.Doc(`
		Generate the items the list would start with and print them without
		starting the interface.
	`),
	Example: heredoc.Doc(`
		# Ten labels, one per line
		togglelist labels -n 10

		# The same labels every time, as JSON
		togglelist labels -n 10 --seed 42 --format json
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		store := items.Generate(cfg.Options.Count, tui.ItemOptions(cfg.Options)...)
		return printItems(cmd.OutOrStdout(), store, format)
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.Flags().IntP("count", "n", 0, "Number of items to generate")
	labelsCmd.Flags().Uint64("seed", 0, "Seed for label generation")
	labelsCmd.Flags().Bool("unique-labels", false, "Regenerate duplicate labels")
	labelsCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
}

type itemOutput struct {
	Index    int    `json:"index" yaml:"index"`
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

func printItems(w io.Writer, store *items.Store, format string) error {
	out := make([]itemOutput, 0, store.Len())
	for i, item := range store.All() {
		out = append(out, itemOutput{
			Index:    i,
			ID:       item.ID,
			Label:    item.Label,
			IsActive: item.IsActive,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "text":
		for _, o := range out {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", o.Index, o.Label); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
