package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tujuhre12/togglelist/internal/config"
	"github.com/tujuhre12/togglelist/internal/log"
	"github.com/tujuhre12/togglelist/internal/metrics"
	"github.com/tujuhre12/togglelist/internal/tui"
	"github.com/tujuhre12/togglelist/internal/version"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().IntP("count", "n", 0, "Number of items to generate")
	rootCmd.Flags().Int("width", 0, "List width in cells (0 fills the terminal)")
	rootCmd.Flags().Int("height", 0, "List height in lines (0 fills the terminal)")
	rootCmd.Flags().Int("item-size", 0, "Height of a row in lines")
	rootCmd.Flags().Int("overscan", 0, "Rows rendered beyond each edge of the viewport")
	rootCmd.Flags().Uint64("seed", 0, "Seed for label generation")
	rootCmd.Flags().Bool("unique-labels", false, "Regenerate duplicate labels")
	rootCmd.Flags().String("metrics-address", "", "Serve Prometheus metrics on this address")
}

var rootCmd = &cobra.Command{
	Use:   "togglelist",
	Short: "A windowed list of items you can toggle",
	Long: heredoc.Doc(`
		Togglelist renders a long list of randomly labelled items, only
		drawing the rows that are on screen. Click a row or press space to
		toggle it between active and inactive.
	`),
	Example: heredoc.Doc(`
		# Run with the default 1002 items
		togglelist

		# A bigger list in a fixed viewport
		togglelist --count 100000 --width 50 --height 20

		# Reproducible labels
		togglelist --seed 42 --unique-labels

		# Expose render counters for Prometheus
		togglelist --metrics-address localhost:9090
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}

		log.Setup(cfg.LogFile(), cfg.Options.Debug)
		slog.Info("Starting togglelist", "version", version.Version, "count", cfg.Options.Count)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		if addr := cfg.Options.MetricsAddress; addr != "" {
			go func() {
				defer log.RecoverPanic("metrics", nil)
				if err := metrics.Serve(ctx, addr, reg); err != nil {
					slog.Error("Metrics server failed", "error", err)
				}
			}()
		}

		model := tui.New(cfg.Options, tui.WithMetrics(m))
		program := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)

		defer log.RecoverPanic("main", cancel)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setupConfig loads the configuration for --cwd and applies the flags that
// were set explicitly on top of it.
func setupConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	o := &cfg.Options
	if flags.Changed("debug") {
		o.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("count") {
		o.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("width") {
		o.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		o.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("item-size") {
		o.ItemSize, _ = flags.GetInt("item-size")
	}
	if flags.Changed("overscan") {
		o.Overscan, _ = flags.GetInt("overscan")
	}
	if flags.Changed("seed") {
		o.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("unique-labels") {
		o.UniqueLabels, _ = flags.GetBool("unique-labels")
	}
	if flags.Changed("metrics-address") {
		o.MetricsAddress, _ = flags.GetString("metrics-address")
	}

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// resolveCwd returns the absolute working directory, changing into --cwd
// when it is set.
func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %v", err)
		}
		if err := os.Chdir(abs); err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
