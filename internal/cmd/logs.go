package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/log/v2"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
)

const defaultTailLines = 1000

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View togglelist logs",
	Long: heredoc.Doc(`
		View the logs written by togglelist for the current project. Logs are
		stored as JSON and printed here in a readable form.
	`),
	Example: heredoc.Doc(`
		# The last 1000 lines
		togglelist logs

		# Keep printing new lines as they are written
		togglelist logs --follow
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		tailLines, _ := cmd.Flags().GetInt("tail")

		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}

		logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})

		logsFile := cfg.LogFile()
		if _, err := os.Stat(logsFile); os.IsNotExist(err) {
			logger.Warn("No logs found for this project", "file", logsFile)
			return nil
		}

		if follow {
			return followLogs(cmd.Context(), logger, logsFile, tailLines)
		}
		return showLogs(logger, logsFile, tailLines)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("tail", "t", defaultTailLines, "Show only the last N lines")
}

func followLogs(ctx context.Context, logger *log.Logger, logsFile string, tailLines int) error {
	if err := showLogs(logger, logsFile, tailLines); err != nil {
		return err
	}

	t, err := tail.TailFile(logsFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Logger:   tail.DiscardingLogger,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %v", err)
	}
	defer t.Cleanup()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				continue
			}
			printLogLine(logger, line.Text)
		case <-ctx.Done():
			return t.Stop()
		}
	}
}

func showLogs(logger *log.Logger, logsFile string, tailLines int) error {
	t, err := tail.TailFile(logsFile, tail.Config{
		Follow: false,
		ReOpen: false,
		Logger: tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to read log file: %v", err)
	}
	defer t.Cleanup()

	lines := make([]string, 0, tailLines)
	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		if tailLines > 0 && len(lines) == tailLines {
			lines = lines[1:]
		}
		lines = append(lines, line.Text)
	}

	for _, line := range lines {
		printLogLine(logger, line)
	}
	return nil
}

// printLogLine pretty prints one JSON line written by slog. Lines that are
// not JSON are skipped.
func printLogLine(logger *log.Logger, lineText string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(lineText), &data); err != nil {
		return
	}
	msg, _ := data["msg"].(string)
	level, _ := data["level"].(string)

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var otherData []any
	for _, k := range keys {
		switch k {
		case "msg", "level", "time":
			continue
		case "source":
			source, ok := data[k].(map[string]any)
			if !ok {
				continue
			}
			file, _ := source["file"].(string)
			line, _ := source["line"].(float64)
			otherData = append(otherData, "source", fmt.Sprintf("%s:%d", file, int(line)))
		default:
			otherData = append(otherData, k, data[k])
		}
	}

	logTime := time.Now()
	if ts, ok := data["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			logTime = parsed
		}
	}
	logger.SetTimeFunction(func(time.Time) time.Time {
		return logTime
	})

	switch level {
	case "DEBUG":
		logger.Debug(msg, otherData...)
	case "WARN":
		logger.Warn(msg, otherData...)
	case "ERROR":
		logger.Error(msg, otherData...)
	default:
		logger.Info(msg, otherData...)
	}
}
