// Package offload implements the reconciliation and sync engines that keep
// a local media library and a remote object-storage bucket in agreement.
//
// The engines are a pure orchestration/classification layer: the metadata
// store (inventory), the storage client, and the presentation of results
// are all collaborators injected by the caller.
//
// # Architecture
//
// A run over the library proceeds in three stages:
//
//  1. Index: the bucket is listed once under the configured prefix and the
//     keys are snapshotted into an Index. The listing is the only fatal
//     failure point of a run.
//
//  2. Walk: every attachment is expanded into its physical files (primary,
//     unscaled original, variants) and each file is classified by crossing
//     local presence with index membership. Reconcile acts on all four
//     states; Push only uploads what is missing remotely.
//
//  3. Orphan scan (Reconcile only): keys in the index that no walked file
//     mapped to are reported and optionally deleted.
//
// # Counters
//
// Every outcome is recorded in a Counters accumulator under stable names
// that reporting layers key off. Dry-run mode suppresses mutations but
// increments the same success counters a real run would, so a dry-run
// preview can be diffed directly against a later real-run summary.
//
// # Failure policy
//
// Per-file failures (upload, delete, local cleanup) are counted and never
// abort the run; each operation is attempted once with no retry. A failed
// index build aborts before any file is touched.
//
// # Usage Example
//
//	source := library.NewStore(db, cfg)
//	engine := offload.NewEngine(source, client, bucket, cfg.Prefix, logger)
//
//	report, err := engine.Reconcile(ctx, offload.Options{
//	    ReuploadMissing: true,
//	    DryRun:          true,
//	})
package offload
