package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/LTangData/customer-info-analysis/internal/config"
	"github.com/LTangData/customer-info-analysis/internal/kaggle"
)

// NewFetchCommand builds the fetch entry point.
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the dataset archive into the external-data directory",
		Long: `Fetch authenticates against the dataset-hosting service and downloads
the configured dataset archive, extracting it into the external-data
directory. The load stage reads its input from that same directory.

Required environment variables:
  KAGGLE_USERNAME   Dataset service account name
  KAGGLE_KEY        Dataset service API key
  KAGGLE_DATA_ID    Dataset to download (e.g. owner/dataset-name)

Optional:
  CIA_DATA_DIR      Extraction directory (default: data/external)

A .env file in the working directory is loaded if present. There are no
retries: a failed download aborts the run with a non-zero exit code.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error
  3  - Panic or unexpected system error
  10 - Required environment value missing
  11 - Credentials rejected by the dataset service
  12 - Download or extraction failed`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runFetch,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger, closeLogs := newLogger("fetch", verbose)
	defer closeLogs()

	_ = godotenv.Load()

	project, err := loadProjectConfig()
	if err != nil {
		logger.Error("%v", err)
		return err
	}

	cfg, err := config.FetchFromEnv(project)
	if err != nil {
		logger.Error("%v", err)
		return err
	}

	client, err := kaggle.NewClient(kaggle.Credentials{
		Username: cfg.Username,
		Key:      cfg.Key,
	}, logger)
	if err != nil {
		logger.Error("%v", err)
		return err
	}

	ctx, cancel := stageContext()
	defer cancel()

	if err := client.Authenticate(ctx); err != nil {
		logger.Error("%v", err)
		return err
	}

	if err := client.FetchDataset(ctx, cfg.DatasetID, cfg.DataDir); err != nil {
		logger.Error("%v", err)
		return err
	}

	return nil
}
