package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/LTangData/customer-info-analysis/internal/config"
	"github.com/LTangData/customer-info-analysis/internal/db"
	"github.com/LTangData/customer-info-analysis/internal/files/scanner"
	"github.com/LTangData/customer-info-analysis/internal/loader"
)

// NewLoadCommand builds the load entry point.
func NewLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load tabular files from the external-data directory into the database",
		Long: `Load scans the external-data directory for tabular files and loads each
one into its own database table. Table names are derived from file names by
stripping the trailing period suffix (orders_202401.csv -> orders); every
column is stored as ` + "VARCHAR(255)" + `.

Per-file failures (unreadable file, rejected schema, failed insert) are
logged, recorded in the run report, and skipped; they do not abort the rest
of the batch and do not affect the exit code.

Required environment variables:
  PGHOST       Database server host
  PGUSER       Database user
  PGPASSWORD   Database password
  PGDATABASE   Target database name

Optional:
  PGPORT       Database port (default: 5432)
  PGSSLMODE    SSL mode (default: prefer)
  CIA_DATA_DIR Input directory (default: data/external)

A .env file in the working directory is loaded if present.

Exit Codes:
  0  - Run completed (even with per-table failures; see the report)
  1  - General error
  2  - CLI usage error
  3  - Panic or unexpected system error
  10 - Required environment value missing
  11 - Database connection failed`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runLoad,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger, closeLogs := newLogger("load", verbose)
	defer closeLogs()

	_ = godotenv.Load()

	project, err := loadProjectConfig()
	if err != nil {
		logger.Error("%v", err)
		return err
	}

	cfg, err := config.LoadFromEnv(project)
	if err != nil {
		logger.Error("%v", err)
		return err
	}

	ctx, cancel := stageContext()
	defer cancel()

	manager, err := db.Open(ctx, cfg.DB, logger)
	if err != nil {
		logger.Error("%v", err)
		return err
	}
	defer manager.Close(ctx) //nolint:errcheck

	files := scanner.NewScanner(logger).ListFiles(cfg.DataDir, cfg.FileExtension)

	tableLoader := loader.New(manager, loader.NewTableNameRule(cfg.TableSuffix), logger)
	report := tableLoader.LoadAll(ctx, files)

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			logger.Verbose("%s: %s (%v)", res.File, res.Status, res.Err)
		default:
			logger.Verbose("%s: %s, %d row(s)", res.File, res.Status, res.Rows)
		}
	}

	if err := manager.Close(ctx); err != nil {
		logger.Error("%v", err)
		return err
	}

	// Per-table failures are reported, not fatal: the exit code stays zero.
	return nil
}
