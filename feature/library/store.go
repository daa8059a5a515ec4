package library

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"media-offload/core/offload"
	"media-offload/feature/library/models"

	"gorm.io/gorm"
)

const defaultBatchSize = 100

// Store is the GORM-backed inventory source over the attachments tables.
// It implements offload.Source.
type Store struct {
	db        *gorm.DB
	localRoot string
	prefix    string
	batchSize int
}

// NewStore creates an inventory store over the given database connection.
func NewStore(db *gorm.DB, cfg offload.Config) *Store {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Store{
		db:        db,
		localRoot: cfg.LocalRoot,
		prefix:    cfg.Prefix,
		batchSize: batch,
	}
}

// TotalCount returns the number of attachments in the library.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Attachment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}
	return count, nil
}

// EachID walks all attachment IDs in ascending order, fetching them in
// pages of batchSize so large libraries are never materialized at once.
func (s *Store) EachID(ctx context.Context, fn func(id int64) error) error {
	lastID := int64(0)
	for {
		var ids []int64
		err := s.db.WithContext(ctx).
			Model(&models.Attachment{}).
			Where("id > ?", lastID).
			Order("id").
			Limit(s.batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to page attachment ids: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		for _, id := range ids {
			if err := fn(id); err != nil {
				return err
			}
		}

		lastID = ids[len(ids)-1]
		if len(ids) < s.batchSize {
			return nil
		}
	}
}

// Files expands one attachment into its physical files: the primary, the
// unscaled original when it differs from the primary, and every variant
// with a non-empty filename. Variant files live in the primary's directory.
// An attachment with no primary path registered yields an empty slice.
func (s *Store) Files(ctx context.Context, id int64) ([]offload.FileEntry, error) {
	var att models.Attachment
	err := s.db.WithContext(ctx).First(&att, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment %d: %w", id, err)
	}

	if att.RelativePath == "" {
		return nil, nil
	}

	entries := []offload.FileEntry{s.entry(att.RelativePath, "primary")}

	if att.OriginalPath != "" && att.OriginalPath != att.RelativePath {
		entries = append(entries, s.entry(att.OriginalPath, "original"))
	}

	var variants []models.AttachmentVariant
	err = s.db.WithContext(ctx).
		Where("attachment_id = ?", id).
		Order("name").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load variants for attachment %d: %w", id, err)
	}

	dir := path.Dir(att.RelativePath)
	for _, v := range variants {
		if v.FileName == "" {
			// Descriptor without a materialized file.
			continue
		}
		rel := v.FileName
		if dir != "." {
			rel = dir + "/" + v.FileName
		}
		entries = append(entries, s.entry(rel, v.Name))
	}

	return entries, nil
}

func (s *Store) entry(rel, variant string) offload.FileEntry {
	return offload.FileEntry{
		LocalPath: filepath.Join(s.localRoot, filepath.FromSlash(rel)),
		RemoteKey: offload.RemoteKey(s.prefix, rel),
		Variant:   variant,
	}
}
