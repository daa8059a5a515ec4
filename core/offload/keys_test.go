package offload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteKey(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		relPath string
		want    string
	}{
		{"TrailingSlashPrefix", "uploads/", "2024/01/photo.jpg", "uploads/2024/01/photo.jpg"},
		{"BarePrefix", "uploads", "2024/01/photo.jpg", "uploads/2024/01/photo.jpg"},
		{"DoubledSeparators", "uploads//", "//2024//photo.jpg", "uploads/2024/photo.jpg"},
		{"EmptyPrefix", "", "photo.jpg", "/photo.jpg"},
		{"FlatFile", "uploads/", "photo.jpg", "uploads/photo.jpg"},
		{"SpacesAndCasePreserved", "uploads/", "2024/My Photo (1).JPG", "uploads/2024/My Photo (1).JPG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoteKey(tt.prefix, tt.relPath))
		})
	}
}

// Derivation must be stable under re-application: a key fed back through the
// collapse comes out unchanged.
func TestRemoteKey_Idempotent(t *testing.T) {
	inputs := []string{
		"uploads/2024/01/photo.jpg",
		"uploads//2024///01/photo.jpg",
		"a/b/c",
		"/",
		"////",
	}

	for _, in := range inputs {
		once := collapseSlashes(in)
		assert.Equal(t, once, collapseSlashes(once), in)
	}
}
