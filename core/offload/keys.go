package offload

import "strings"

// RemoteKey derives the object key for a file path relative to the local
// root. The prefix and relative path are joined and any run of separators
// is collapsed into one: callers assemble paths from a directory component
// that may itself end in a slash, producing accidental doubles. The
// collapse is idempotent. No escaping or case folding is performed; keys
// are byte-for-byte derived from relative paths.
func RemoteKey(prefix, relPath string) string {
	return collapseSlashes(prefix + "/" + relPath)
}

func collapseSlashes(s string) string {
	if !strings.Contains(s, "//") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
