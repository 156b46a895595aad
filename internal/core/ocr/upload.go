package ocr

import (
	"fmt"
	"net/http"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
)

// ValidateUpload rejects payloads the engines must never see: empty or
// oversize data, media types outside the allow-list, and data whose sniffed
// type contradicts the declared one. It returns the canonical media type.
func ValidateUpload(contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", common.NewAppError(common.CodeEmptyPayload, "upload is empty", common.ErrInvalidInput)
	}
	if len(data) > constants.MaxUploadBytes {
		return "", common.NewAppError(common.CodePayloadTooLarge,
			fmt.Sprintf("upload is %d bytes, limit is %d", len(data), constants.MaxUploadBytes),
			common.ErrPayloadTooLarge)
	}
	mt := constants.NormalizeMediaType(contentType)
	if !allowed(mt) {
		return "", common.NewAppError(common.CodeUnsupportedMedia,
			fmt.Sprintf("media type %q is not accepted", contentType),
			common.ErrUnsupportedMedia)
	}
	// DetectContentType knows jpeg, png, webp and bmp; tiff sniffs as octet-stream.
	switch sniffed := constants.NormalizeMediaType(http.DetectContentType(data)); {
	case sniffed == "application/octet-stream", sniffed == mt:
	case allowed(sniffed):
		return "", common.NewAppError(common.CodeUnsupportedMedia,
			fmt.Sprintf("declared %s but content looks like %s", mt, sniffed),
			common.ErrUnsupportedMedia)
	default:
		return "", common.NewAppError(common.CodeUnsupportedMedia,
			fmt.Sprintf("content looks like %s, not an image", sniffed),
			common.ErrUnsupportedMedia)
	}
	return mt, nil
}

func allowed(mt string) bool {
	_, ok := constants.AllowedMediaTypes[mt]
	return ok
}
