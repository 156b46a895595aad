package llm

import (
	"encoding/base64"

	"github.com/joseph-ayodele/medocs/constants"
)

// DataURL encodes an image for inline attachment to a chat message.
func DataURL(mediaType string, data []byte) string {
	mt := constants.NormalizeMediaType(mediaType)
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}
