package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fincase/console-fin/internal/ui"
)

// browseCmd launches the interactive TUI.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the case management TUI",
	Long: `Browse opens the interactive terminal interface: a case list with an inline
create/edit form, and a per-case detail view with transaction entry and
anomaly analysis.

While the TUI is running, log output goes to a file instead of the terminal.`,
	RunE: runBrowse,
}

var logFile string

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the TUI runs (default: discard)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	config := GetConfig()
	logger := newLogger(config)

	// The terminal belongs to tview while the TUI runs.
	logger.SetOutput(io.Discard)
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				logger.SetOutput(f)
				defer f.Close()
			}
		}
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	logger.WithField("api_url", config.API.URL).Info("starting TUI")
	app := ui.New(cmd.Context(), client, logger)
	if err := app.Run(); err != nil {
		logger.WithError(err).Error("TUI exited with error")
		return err
	}
	return nil
}
