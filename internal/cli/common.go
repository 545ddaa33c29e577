// Package cli wires configuration, logging, and the pipeline stages into
// the two entry-point commands, fetch and load.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LTangData/customer-info-analysis/internal/config"
	"github.com/LTangData/customer-info-analysis/internal/logging"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// stageTimeout is catastrophic failure protection, not normal timeout
// control: it prevents an unresponsive network or database from hanging
// the batch forever.
const stageTimeout = 30 * time.Minute

// getVerboseFlag safely retrieves the verbose flag value.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// newLogger builds the entry point's logger: console output plus a log file
// named after the entry point. If the log file cannot be opened, logging
// degrades to console only. The returned closer flushes the file sink.
func newLogger(entrypoint string, verbose bool) (cia.Logger, func()) {
	console := logging.NewConsoleLogger(verbose)

	file, err := logging.NewFileLogger(cia.LogDirectory, entrypoint, verbose)
	if err != nil {
		console.Warn("File logging disabled: %v", err)
		return console, func() {}
	}

	return logging.Multi(console, file), func() {
		file.Close() //nolint:errcheck
	}
}

// loadProjectConfig reads the optional cia.yaml from the working directory.
// A missing file means defaults.
func loadProjectConfig() (*config.ProjectConfig, error) {
	project, err := config.LoadProject(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return project, nil
}

// stageContext returns a context cancelled on SIGINT/SIGTERM and bounded by
// the stage timeout.
func stageContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, stageTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
