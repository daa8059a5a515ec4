package cmd

import (
	"context"
	"fmt"

	"media-offload/core/config"
	"media-offload/core/database"
	"media-offload/core/logger"
	"media-offload/core/offload"
	"media-offload/core/storage"
	"media-offload/feature/library"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the push command
	forcePush       bool
	dryRunPush      bool
	skipListingPush bool
	createBucket    bool
)

// pushCmd uploads every local-only library file to the bucket.
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local media files to the bucket",
	Long: `Push walks the attachment inventory and uploads every file not yet
present in the bucket. Files already offloaded are skipped, so repeated
runs are idempotent.

Examples:
  # Upload everything missing remotely
  media-offload push

  # Preview without uploading
  media-offload push --dry-run

  # Re-upload everything, ignoring remote presence
  media-offload push --force

  # Skip the bucket listing and probe keys individually
  media-offload push --skip-listing`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&forcePush, "force", false, "Re-upload files regardless of remote presence")
	pushCmd.Flags().BoolVar(&dryRunPush, "dry-run", false, "Count intended uploads without performing them")
	pushCmd.Flags().BoolVar(&skipListingPush, "skip-listing", false, "Probe keys individually instead of listing the prefix")
	pushCmd.Flags().BoolVar(&createBucket, "create-bucket", false, "Create the bucket if it does not exist")

	RootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting media push",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("prefix", cfg.Offload.Prefix),
		zap.Bool("dry_run", dryRunPush),
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	if createBucket {
		exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{Region: cfg.Storage.Region}); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
			l.Info("Bucket created", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	svc := library.NewService(client, cfg.Storage, l, db, cfg.Offload)
	if err := svc.Preflight(ctx); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	report, err := svc.Push(ctx, offload.Options{
		DryRun:      dryRunPush,
		Force:       forcePush,
		SkipListing: skipListingPush,
	})
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	printPushReport(l, report)

	if dryRunPush {
		l.Info("Dry-run mode: No files were uploaded.")
	}

	return nil
}

// printPushReport prints a formatted push summary using the logger.
func printPushReport(l *zap.Logger, report *offload.Report) {
	c := report.Counters

	l.Info("Push report",
		zap.Int64("total_attachments", report.TotalAttachments),
		zap.Int("total_files_processed", c.Get(offload.CounterTotalProcessed)),
		zap.Int("files_uploaded", c.Get(offload.CounterUploaded)),
		zap.Int("files_skipped_exists", c.Get(offload.CounterSkippedExists)),
		zap.Int("files_local_not_found", c.Get(offload.CounterLocalNotFound)),
		zap.Int("files_s3_errors", c.Get(offload.CounterStorageErrors)),
	)
}
