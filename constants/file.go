package constants

import "strings"

// MaxUploadBytes caps a single uploaded image (10 MiB).
const MaxUploadBytes = 10 << 20

// AllowedMediaTypes holds the image media types the OCR engines accept.
var AllowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/bmp":  {},
	"image/tiff": {},
}

// AllowedExtensions maps file extensions to their media type for directory ingestion.
var AllowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MediaTypeForExt returns the media type for ext, or "" when the extension is not accepted.
func MediaTypeForExt(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}

// NormalizeMediaType lowercases a Content-Type value and strips parameters.
func NormalizeMediaType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	if ct == "image/x-ms-bmp" {
		return "image/bmp"
	}
	return ct
}
