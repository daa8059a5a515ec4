package offload

import (
	"context"
	"mime"
	"os"
	"path/filepath"

	"media-offload/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ProgressFunc is invoked once per attachment during a walk. It is a pure
// side channel: it has no effect on counters or control flow.
type ProgressFunc func(id int64)

// Engine walks the attachment inventory and reconciles it against the
// remote bucket. It performs no internal parallelism; each attachment is
// processed to completion before the next begins, so counters are
// reproducible across runs over the same fixture.
type Engine struct {
	source   Source
	client   storage.Client
	bucket   string
	prefix   string
	logger   *zap.Logger
	progress ProgressFunc
}

// NewEngine creates an engine over the given inventory source and storage
// client. The prefix scopes every remote operation; keys outside it are
// invisible to the engine by construction.
func NewEngine(source Source, client storage.Client, bucket, prefix string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source: source,
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// OnProgress registers an optional per-attachment observer.
func (e *Engine) OnProgress(fn ProgressFunc) {
	e.progress = fn
}

// fileState is the four-way classification of one file:
// {local exists} x {remote key indexed}.
type fileState int

const (
	stateRemoteMissing fileState = iota // local yes, remote no
	stateBothPresent                    // local yes, remote yes
	stateRemoteOnly                     // local no, remote yes: offloaded steady state
	stateBothMissing                    // local no, remote no: broken reference
)

func classify(localExists, remoteExists bool) fileState {
	switch {
	case localExists && !remoteExists:
		return stateRemoteMissing
	case localExists && remoteExists:
		return stateBothPresent
	case remoteExists:
		return stateRemoteOnly
	default:
		return stateBothMissing
	}
}

// Reconcile walks every attachment, classifies each derived file against a
// freshly built remote index, executes the corrective actions the options
// request, and finishes with an orphan scan over the unvisited remainder of
// the index. Per-file failures are swallowed into counters; only the index
// build (and inventory enumeration) abort the run.
func (e *Engine) Reconcile(ctx context.Context, opts Options) (*Report, error) {
	counters := NewCounters()

	total, err := e.source.TotalCount(ctx)
	if err != nil {
		return nil, err
	}

	index, err := BuildIndex(ctx, e.client, e.bucket, e.prefix)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Remote index built",
		zap.String("prefix", e.prefix),
		zap.Int("objects", index.Len()),
	)

	visited := make(map[string]struct{})

	err = e.source.EachID(ctx, func(id int64) error {
		counters.Inc(CounterAttachmentsScanned)
		if e.progress != nil {
			e.progress(id)
		}

		files, err := e.source.Files(ctx, id)
		if err != nil {
			// A single unreadable attachment must not abort the walk.
			e.logger.Warn("Failed to expand attachment files",
				zap.Int64("attachment_id", id),
				zap.Error(err),
			)
			return nil
		}

		for _, entry := range files {
			visited[entry.RemoteKey] = struct{}{}
			counters.Inc(CounterFilesScanned)

			switch classify(localFileExists(entry.LocalPath), index.Has(entry.RemoteKey)) {
			case stateRemoteMissing:
				counters.Inc(CounterRemoteMissing)
				if !opts.ReuploadMissing {
					continue
				}
				if e.upload(ctx, entry, opts) {
					counters.Inc(CounterReuploaded)
					if opts.CleanupLocal {
						e.removeLocal(entry, opts, counters)
					}
				} else {
					counters.Inc(CounterReuploadFailed)
				}

			case stateBothPresent:
				counters.Inc(CounterLocalFilesExist)
				if opts.CleanupLocal && !opts.ReuploadMissing {
					e.removeLocal(entry, opts, counters)
				}

			case stateRemoteOnly:
				counters.Inc(CounterRemoteOnly)

			case stateBothMissing:
				counters.Inc(CounterBothMissing)
				e.logger.Warn("Broken reference: file missing locally and remotely",
					zap.Int64("attachment_id", id),
					zap.String("key", entry.RemoteKey),
					zap.String("variant", entry.Variant),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	orphans := e.scanOrphans(ctx, index, visited, opts, counters)

	return &Report{
		Counters:         counters,
		Orphans:          orphans,
		TotalAttachments: total,
	}, nil
}

// scanOrphans computes the orphan set (index minus visited keys) and
// optionally deletes it. Orphan scanning is only meaningful after a full
// reconciliation walk, never after a one-directional push.
func (e *Engine) scanOrphans(ctx context.Context, index *Index, visited map[string]struct{}, opts Options, counters *Counters) []string {
	counters.Add(CounterObjectsScanned, index.Len())

	var orphans []string
	for _, key := range index.Keys() {
		if _, ok := visited[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	counters.Add(CounterOrphansFound, len(orphans))

	if !opts.DeleteOrphans || len(orphans) == 0 {
		return orphans
	}

	if opts.DryRun {
		counters.Add(CounterOrphansDeleted, len(orphans))
		return orphans
	}

	objectsCh := make(chan minio.ObjectInfo, len(orphans))
	for _, key := range orphans {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	failed := 0
	for removeErr := range e.client.RemoveObjects(ctx, e.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed++
		counters.Inc(CounterOrphanDeleteFailed)
		e.logger.Warn("Failed to delete orphan object",
			zap.String("key", removeErr.ObjectName),
			zap.Error(removeErr.Err),
		)
	}
	counters.Add(CounterOrphansDeleted, len(orphans)-failed)

	return orphans
}

// upload pushes one file to the bucket. Dry-run counts as success without
// performing the call. Returns false on failure; the file keeps its prior
// state and is caught by a subsequent run.
func (e *Engine) upload(ctx context.Context, entry FileEntry, opts Options) bool {
	if opts.DryRun {
		return true
	}

	putOpts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(entry.LocalPath)),
	}
	if _, err := e.client.FPutObject(ctx, e.bucket, entry.RemoteKey, entry.LocalPath, putOpts); err != nil {
		e.logger.Warn("Upload failed",
			zap.String("key", entry.RemoteKey),
			zap.String("path", entry.LocalPath),
			zap.Error(err),
		)
		return false
	}
	return true
}

// removeLocal deletes the local copy of a file confirmed (or just made) to
// exist remotely.
func (e *Engine) removeLocal(entry FileEntry, opts Options, counters *Counters) {
	if opts.DryRun {
		counters.Inc(CounterLocalCleaned)
		return
	}

	if err := os.Remove(entry.LocalPath); err != nil {
		counters.Inc(CounterLocalCleanupFailed)
		e.logger.Warn("Failed to delete local copy",
			zap.String("path", entry.LocalPath),
			zap.Error(err),
		)
		return
	}
	counters.Inc(CounterLocalCleaned)
}

func localFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
