package offload

import "context"

// Counter names for the push (one-directional sync) engine.
// Reporting layers key off these names; they are part of the external contract.
const (
	CounterTotalProcessed = "total_files_processed"
	CounterUploaded       = "files_uploaded"
	CounterSkippedExists  = "files_skipped_exists"
	CounterLocalNotFound  = "files_local_not_found"
	CounterStorageErrors  = "files_s3_errors"
)

// Counter names for the reconciliation engine and orphan scan.
const (
	CounterAttachmentsScanned = "wp_attachments_scanned"
	CounterFilesScanned       = "wp_files_scanned"
	CounterLocalFilesExist    = "local_files_exist"
	CounterRemoteMissing      = "s3_missing"
	CounterRemoteOnly         = "s3_exists_local_missing"
	CounterReuploaded         = "s3_reuploaded"
	CounterReuploadFailed     = "s3_reupload_failed"
	CounterLocalCleaned       = "local_cleaned"
	CounterLocalCleanupFailed = "local_cleanup_failed"
	CounterBothMissing        = "local_missing_s3_missing"
	CounterObjectsScanned     = "s3_objects_scanned"
	CounterOrphansFound       = "s3_orphans_found"
	CounterOrphansDeleted     = "s3_orphans_deleted"
	CounterOrphanDeleteFailed = "s3_orphan_delete_failed"
)

// FileEntry is one physical file derived from an attachment.
// Entries are built during a walk and consumed immediately, never persisted.
type FileEntry struct {
	// LocalPath is the absolute path of the file on disk.
	LocalPath string
	// RemoteKey is the object key the file maps to, derived via RemoteKey().
	RemoteKey string
	// Variant labels the rendition: "primary", "original", or a variant name.
	Variant string
}

// Options control a single engine run. Constructed once from caller flags
// and never mutated during the run.
type Options struct {
	// DryRun suppresses mutations while still incrementing the success
	// counters a real run would, so reports stay structurally comparable.
	DryRun bool

	// Force re-uploads files regardless of remote presence (push only).
	Force bool

	// SkipListing skips the prefix listing and probes keys individually
	// (push only).
	SkipListing bool

	// ReuploadMissing uploads files present locally but missing remotely.
	ReuploadMissing bool

	// DeleteOrphans deletes remote keys no inventory entry maps to.
	DeleteOrphans bool

	// CleanupLocal deletes local copies confirmed to exist remotely.
	CleanupLocal bool
}

// Source abstracts the inventory of attachments the metadata store owns.
// Implementations must page internally when the store is large.
type Source interface {
	// TotalCount returns the number of attachments in the inventory.
	TotalCount(ctx context.Context) (int64, error)

	// EachID invokes fn once per attachment identifier, in stable order.
	// An error from fn stops the walk and is returned unchanged.
	EachID(ctx context.Context, fn func(id int64) error) error

	// Files expands one attachment into its physical files: the primary,
	// the unscaled original when the store records one distinct from the
	// primary, and every variant with a non-empty filename. An attachment
	// with no primary path yields an empty slice, not an error.
	Files(ctx context.Context, id int64) ([]FileEntry, error)
}

// Report is the outcome of one engine run, handed unchanged to reporting.
type Report struct {
	// Counters holds the run's accumulated counts.
	Counters *Counters `json:"counters"`

	// Orphans lists remote keys with no inventory entry, sorted.
	// Populated by reconciliation runs only; display layers truncate.
	Orphans []string `json:"orphans,omitempty"`

	// TotalAttachments is the inventory size at run start.
	TotalAttachments int64 `json:"total_attachments"`
}
