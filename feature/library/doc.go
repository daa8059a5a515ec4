// Package library implements the media library feature.
//
// It owns the inventory of attachments (primary renditions, unscaled
// originals, and variant files such as thumbnails) stored in the metadata
// database, and wires that inventory to the `core/offload` engines for
// pushing files to the bucket and reconciling drift.
//
// # Components
//
//   - Store: GORM-backed inventory source implementing offload.Source,
//     paging attachments so large libraries stay memory-bounded.
//   - Service: Orchestrates engine runs, collaborator preflight, and status.
//   - Handler: Exposes read-only HTTP endpoints for report and status.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /library/status : Collaborator health and inventory size.
//   - GET /library/report : Dry-run reconciliation counters and orphan keys.
package library
