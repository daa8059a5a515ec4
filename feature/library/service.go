package library

import (
	"context"
	"fmt"

	"media-offload/core/database"
	"media-offload/core/offload"
	"media-offload/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service wires the offload engines to the library's metadata store and
// the configured bucket.
type Service struct {
	client     storage.Client
	storageCfg storage.Config
	logger     *zap.Logger
	db         *gorm.DB
	cfg        offload.Config
}

// NewService creates a new library service.
func NewService(client storage.Client, storageCfg storage.Config, logger *zap.Logger, db *gorm.DB, cfg offload.Config) *Service {
	return &Service{
		client:     client,
		storageCfg: storageCfg,
		logger:     logger,
		db:         db,
		cfg:        cfg,
	}
}

// Engine builds an offload engine over the library store. Each run gets a
// fresh engine so progress observers never leak between runs.
func (s *Service) Engine() *offload.Engine {
	store := NewStore(s.db, s.cfg)
	return offload.NewEngine(store, s.client, s.storageCfg.Bucket, s.cfg.Prefix, s.logger)
}

// Verify runs a full reconciliation walk plus orphan scan.
func (s *Service) Verify(ctx context.Context, opts offload.Options) (*offload.Report, error) {
	return s.Engine().Reconcile(ctx, opts)
}

// Push runs the one-directional local-to-remote sync.
func (s *Service) Push(ctx context.Context, opts offload.Options) (*offload.Report, error) {
	return s.Engine().Push(ctx, opts)
}

// Status describes the health of the library's collaborators.
type Status struct {
	BucketOK      bool     `json:"bucket_ok"`
	BucketError   string   `json:"bucket_error,omitempty"`
	MissingTables []string `json:"missing_tables,omitempty"`
	Attachments   int64    `json:"attachments"`
}

// Preflight verifies the collaborators the engines assume are already
// valid: the bucket must be reachable and the attachment tables present.
// Detected before any engine method is invoked.
func (s *Service) Preflight(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.storageCfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.storageCfg.Bucket, err)
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.storageCfg.Bucket)
	}

	if missing := database.MissingTables(s.db, "attachments", "attachment_variants"); len(missing) > 0 {
		return fmt.Errorf("missing metadata tables: %v", missing)
	}

	return nil
}

// GetStatus reports collaborator health and the inventory size.
func (s *Service) GetStatus(ctx context.Context) *Status {
	status := &Status{}

	ok, err := s.client.BucketExists(ctx, s.storageCfg.Bucket)
	status.BucketOK = ok && err == nil
	if err != nil {
		status.BucketError = err.Error()
	}

	status.MissingTables = database.MissingTables(s.db, "attachments", "attachment_variants")

	if count, err := NewStore(s.db, s.cfg).TotalCount(ctx); err == nil {
		status.Attachments = count
	}

	return status
}

// ObjectURL returns the public URL for a remote key, for reporting only.
func (s *Service) ObjectURL(key string) string {
	return s.storageCfg.ObjectURL(key)
}

// OrphanDisplayLimit returns the configured cap for orphan listings.
func (s *Service) OrphanDisplayLimit() int {
	if s.cfg.OrphanDisplayLimit <= 0 {
		return 25
	}
	return s.cfg.OrphanDisplayLimit
}
