package cli

import (
	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Bulk file transfer between local disk and object storage",
	Long: `bulk moves whole directories and file sets between the local filesystem
and object storage (S3-compatible, Azure Blob, Google Cloud Storage).

Every file transfers as an independent unit under a bounded concurrency
budget; one bad file never aborts the batch. Configuration is loaded from a
.env file or environment variables (BULK_BACKEND, BULK_BUCKET, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command with the given configuration.
func Execute(config *Config, log *zap.Logger) error {
	cfg = config
	logger = log
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(bucketCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket or container name from config")
	rootCmd.PersistentFlags().IntP("concurrency", "c", 0, "Override transfer concurrency")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print per-unit progress")
}

func bucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.Bucket
}

func concurrency(cmd *cobra.Command) int {
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		return n
	}
	if cfg.Concurrency > 0 {
		return cfg.Concurrency
	}
	return 0
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
