package offload

import (
	"context"

	"media-offload/core/storage"

	"go.uber.org/zap"
)

// Push uploads every local-only file to the bucket. Unless forced, files
// already present remotely are skipped; existence comes from a pre-built
// index, or from per-key probes when listing is skipped. Running Push twice
// without force over an unchanged library uploads nothing the second time.
func (e *Engine) Push(ctx context.Context, opts Options) (*Report, error) {
	counters := NewCounters()

	total, err := e.source.TotalCount(ctx)
	if err != nil {
		return nil, err
	}

	// Forced uploads never consult existence, so the listing would be
	// wasted work.
	var index *Index
	if !opts.Force && !opts.SkipListing {
		index, err = BuildIndex(ctx, e.client, e.bucket, e.prefix)
		if err != nil {
			return nil, err
		}
		e.logger.Info("Remote index built",
			zap.String("prefix", e.prefix),
			zap.Int("objects", index.Len()),
		)
	}

	err = e.source.EachID(ctx, func(id int64) error {
		if e.progress != nil {
			e.progress(id)
		}

		files, err := e.source.Files(ctx, id)
		if err != nil {
			e.logger.Warn("Failed to expand attachment files",
				zap.Int64("attachment_id", id),
				zap.Error(err),
			)
			return nil
		}

		for _, entry := range files {
			counters.Inc(CounterTotalProcessed)

			if !localFileExists(entry.LocalPath) {
				counters.Inc(CounterLocalNotFound)
				e.logger.Debug("Local file not found, skipping",
					zap.Int64("attachment_id", id),
					zap.String("path", entry.LocalPath),
				)
				continue
			}

			if !opts.Force {
				exists, err := e.remoteExists(ctx, index, entry.RemoteKey)
				if err != nil {
					// Probe failed: existence is undecidable for this
					// file, count it and move on.
					counters.Inc(CounterStorageErrors)
					e.logger.Warn("Existence probe failed",
						zap.String("key", entry.RemoteKey),
						zap.Error(err),
					)
					continue
				}
				if exists {
					counters.Inc(CounterSkippedExists)
					continue
				}
			}

			if e.upload(ctx, entry, opts) {
				counters.Inc(CounterUploaded)
			} else {
				counters.Inc(CounterStorageErrors)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Report{
		Counters:         counters,
		TotalAttachments: total,
	}, nil
}

func (e *Engine) remoteExists(ctx context.Context, index *Index, key string) (bool, error) {
	if index != nil {
		return index.Has(key), nil
	}
	return storage.ObjectExists(ctx, e.client, e.bucket, key)
}
