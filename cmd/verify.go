package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"media-offload/core/config"
	"media-offload/core/database"
	"media-offload/core/logger"
	"media-offload/core/offload"
	"media-offload/core/storage"
	"media-offload/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the verify command
	reuploadMissing bool
	cleanupLocal    bool
	deleteOrphans   bool
	dryRunVerify    bool
	yesConfirm      bool
)

// verifyCmd reconciles the library against the bucket with optional repairs.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reconcile the library against the bucket (report + optionally repair)",
	Long: `Verify walks every attachment, classifies each file by local and remote
presence, and reports drift. Optionally re-upload files missing remotely,
delete local copies already offloaded, or delete remote orphans.

Examples:
  # Report only
  media-offload verify

  # Preview repairs without mutating anything
  media-offload verify --reupload-missing --delete-orphans --dry-run

  # Re-upload missing files (with interactive confirmation)
  media-offload verify --reupload-missing

  # Free local disk space for files confirmed in the bucket
  media-offload verify --cleanup-local --yes

  # Delete remote orphans with auto-confirm (non-interactive)
  media-offload verify --delete-orphans --yes`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&reuploadMissing, "reupload-missing", false, "Upload files present locally but missing remotely")
	verifyCmd.Flags().BoolVar(&cleanupLocal, "cleanup-local", false, "Delete local copies confirmed to exist remotely")
	verifyCmd.Flags().BoolVar(&deleteOrphans, "delete-orphans", false, "Delete remote keys no attachment maps to")
	verifyCmd.Flags().BoolVar(&dryRunVerify, "dry-run", false, "Count intended actions without mutating anything")
	verifyCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting library verification",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("prefix", cfg.Offload.Prefix),
		zap.Bool("dry_run", dryRunVerify),
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := library.NewService(client, cfg.Storage, l, db, cfg.Offload)
	if err := svc.Preflight(ctx); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	// Deleting files (local or remote) needs confirmation unless dry-run.
	destructive := (cleanupLocal || deleteOrphans) && !dryRunVerify
	if destructive && !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	report, err := svc.Verify(ctx, offload.Options{
		DryRun:          dryRunVerify,
		ReuploadMissing: reuploadMissing,
		DeleteOrphans:   deleteOrphans,
		CleanupLocal:    cleanupLocal,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	printVerifyReport(l, svc, report)

	if dryRunVerify {
		l.Info("Dry-run mode: No changes were made.")
	}

	return nil
}

// printVerifyReport prints a formatted reconciliation report using the logger.
func printVerifyReport(l *zap.Logger, svc *library.Service, report *offload.Report) {
	c := report.Counters

	l.Info("Verification report",
		zap.Int64("total_attachments", report.TotalAttachments),
		zap.Int("wp_attachments_scanned", c.Get(offload.CounterAttachmentsScanned)),
		zap.Int("wp_files_scanned", c.Get(offload.CounterFilesScanned)),
		zap.Int("local_files_exist", c.Get(offload.CounterLocalFilesExist)),
		zap.Int("s3_missing", c.Get(offload.CounterRemoteMissing)),
		zap.Int("s3_exists_local_missing", c.Get(offload.CounterRemoteOnly)),
		zap.Int("local_missing_s3_missing", c.Get(offload.CounterBothMissing)),
	)

	l.Info("Repair summary",
		zap.Int("s3_reuploaded", c.Get(offload.CounterReuploaded)),
		zap.Int("s3_reupload_failed", c.Get(offload.CounterReuploadFailed)),
		zap.Int("local_cleaned", c.Get(offload.CounterLocalCleaned)),
		zap.Int("local_cleanup_failed", c.Get(offload.CounterLocalCleanupFailed)),
	)

	l.Info("Orphan summary",
		zap.Int("s3_objects_scanned", c.Get(offload.CounterObjectsScanned)),
		zap.Int("s3_orphans_found", c.Get(offload.CounterOrphansFound)),
		zap.Int("s3_orphans_deleted", c.Get(offload.CounterOrphansDeleted)),
		zap.Int("s3_orphan_delete_failed", c.Get(offload.CounterOrphanDeleteFailed)),
	)

	// Show a sample of orphan keys, capped for readability.
	if len(report.Orphans) > 0 {
		maxShow := svc.OrphanDisplayLimit()
		if len(report.Orphans) < maxShow {
			maxShow = len(report.Orphans)
		}
		for i := 0; i < maxShow; i++ {
			l.Info("Orphan object",
				zap.String("key", report.Orphans[i]),
				zap.String("url", svc.ObjectURL(report.Orphans[i])),
			)
		}
		if len(report.Orphans) > maxShow {
			l.Info("Additional orphans not shown", zap.Int("count", len(report.Orphans)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
