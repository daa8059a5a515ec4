package offload

import (
	"context"
	"fmt"
	"sort"

	"media-offload/core/storage"

	"github.com/minio/minio-go/v7"
)

// Index is a snapshot of the object keys known to exist under a prefix.
// It is built once per run and treated as immutable afterwards; concurrent
// external mutation of the bucket during a run is not observed.
type Index struct {
	keys map[string]struct{}
}

// Has reports whether the key was present at listing time.
func (i *Index) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

// Len returns the number of indexed keys.
func (i *Index) Len() int {
	return len(i.keys)
}

// Keys returns all indexed keys in sorted order.
func (i *Index) Keys() []string {
	keys := make([]string, 0, len(i.keys))
	for key := range i.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ListError indicates the remote listing could not complete. Callers must
// treat it as fatal to any run that required a pre-built index: existence
// cannot be decided from a partial listing.
type ListError struct {
	Prefix string
	Err    error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("listing objects under %q failed: %v", e.Prefix, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// BuildIndex lists all objects under the prefix and returns their keys as a
// set. Paging is handled by the client; the caller sees one completed set
// or one failure, never a partial set on success.
func BuildIndex(ctx context.Context, client storage.Client, bucket, prefix string) (*Index, error) {
	keys := make(map[string]struct{})

	objects := client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, &ListError{Prefix: prefix, Err: obj.Err}
		}
		keys[obj.Key] = struct{}{}
	}

	return &Index{keys: keys}, nil
}
