package format

import (
	"path/filepath"
	"strings"
)

// Resolve derives a format name for path. A non-empty explicit name is
// returned unchanged. Otherwise the name is the file extension without the
// dot, as written (no case folding); ok is false when there is none. A
// leading dot does not start an extension, so ".env" has none.
func Resolve(explicit, path string) (name string, ok bool) {
	if explicit != "" {
		return explicit, true
	}

	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}
