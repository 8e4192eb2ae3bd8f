package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbulk/bulk"
	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/progress"
)

// newOrchestrator wires a storage backend and orchestrator from config and
// command flags.
func newOrchestrator(ctx context.Context, cmd *cobra.Command) (*bulk.Orchestrator, error) {
	store, err := cfg.NewStore(ctx, bucketName(cmd))
	if err != nil {
		return nil, err
	}

	opts := []bulktypes.Option{bulk.WithLogger(logger)}
	if n := concurrency(cmd); n > 0 {
		opts = append(opts, bulk.WithConcurrency(n))
	}
	if isVerbose(cmd) {
		opts = append(opts, bulk.WithProgress(progress.Log(logger)))
	}
	return bulk.New(store, opts...)
}

// printResult renders the bulk result summary and returns an error when any
// unit failed so the process exits nonzero.
func printResult(cmd *cobra.Command, result *bulktypes.BulkResult) error {
	cmd.Printf("transferred %d/%d files (%d bytes) in %s\n",
		result.Succeeded, result.TotalUnits, result.BytesTransferred, result.Duration.Round(time.Millisecond))

	for _, failure := range result.Failures {
		logger.Warn("transfer failed",
			zap.String("local", failure.Unit.Path.LocalPath),
			zap.String("key", failure.Unit.Path.StoragePath),
			zap.Error(failure.Err))
		cmd.Printf("  FAILED %s: %v\n", failure.Unit.Path.StoragePath, failure.Err)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d transfers failed", result.Failed, result.TotalUnits)
	}
	return nil
}

var uploadCmd = &cobra.Command{
	Use:   "upload <local-dir> <storage-prefix>",
	Short: "Upload a directory tree to object storage",
	Example: `  # Upload ./data under the "backups/" prefix
  bulk upload ./data backups

  # Upload with a wider concurrency budget
  bulk upload ./data backups --concurrency 50`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}

		result, err := orch.UploadDir(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(cmd, result)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <storage-prefix> <local-dir>",
	Short: "Download every object under a prefix into a local directory",
	Example: `  # Download everything under "backups/" into ./restore
  bulk download backups ./restore`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}

		result, err := orch.DownloadDir(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(cmd, result)
	},
}
