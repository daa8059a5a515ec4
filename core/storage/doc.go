// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the offload engines need: uploading local files, probing single
// keys, listing a prefix, and deleting objects one at a time or in batches.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket if needed.
//   - FPutObject: Uploads a local file by path.
//   - StatObject: HEAD-style probe for a single key.
//   - ListObjects: Lists objects under a prefix.
//   - RemoveObject / RemoveObjects: Deletes objects singly or in batches.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "media")
package storage
