package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/medocs/constants"
)

// Suggestion texts, in the order Advise emits them.
const (
	SuggestResolution    = "Use a higher resolution scan or photo (300 DPI or more)."
	SuggestLighting      = "Improve lighting and focus so the text is sharp and evenly lit."
	SuggestDeskew        = "Straighten the document so lines of text are level before scanning."
	SuggestCloudOCR      = "Try the cloud OCR engine for higher recognition accuracy."
	SuggestManual        = "Handwritten content may need manual transcription."
	SuggestReadableText  = "Very little text was detected. Check that the image contains readable text."
	SuggestMissingNumber = "No numbers were detected, which is unusual for a medical document. Check dates, dosages and values."
)

// Advise lists improvement suggestions for a recognition result. Every rule is
// evaluated independently; lower confidence only ever adds suggestions.
func Advise(confidence float64, text string) []string {
	out := make([]string, 0, 7)
	if confidence < constants.LowConfidenceThreshold {
		out = append(out, SuggestResolution, SuggestLighting, SuggestDeskew)
	}
	if confidence < constants.VeryLowConfidenceThreshold {
		out = append(out, SuggestCloudOCR, SuggestManual)
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < constants.MinUsefulTextLength {
		out = append(out, SuggestReadableText)
	}
	if strings.IndexFunc(text, unicode.IsDigit) < 0 {
		out = append(out, SuggestMissingNumber)
	}
	return out
}
