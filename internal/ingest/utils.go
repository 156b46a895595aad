package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/medocs/constants"
)

// AllowedExt checks if a file extension names an accepted image type.
func AllowedExt(ext string) bool {
	return constants.MediaTypeForExt(ext) != ""
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && strings.HasPrefix(base, ".")
}
