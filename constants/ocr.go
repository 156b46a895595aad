package constants

// OCRMethod selects the recognition engine for an upload.
type OCRMethod string

const (
	OCRMethodAuto  OCRMethod = "auto"  // cloud when a credential is configured, local otherwise
	OCRMethodLocal OCRMethod = "local" // tesseract CLI
	OCRMethodCloud OCRMethod = "cloud" // vision model behind the LLM credential
)

// ParseOCRMethod accepts the method names callers send over the wire.
func ParseOCRMethod(s string) (OCRMethod, bool) {
	switch s {
	case "", "auto":
		return OCRMethodAuto, true
	case "local", "tesseract":
		return OCRMethodLocal, true
	case "cloud", "openai", "vision":
		return OCRMethodCloud, true
	}
	return OCRMethodAuto, false
}

// Confidence thresholds shared by the quality advisor and the OCR engines.
const (
	LowConfidenceThreshold     = 0.7
	VeryLowConfidenceThreshold = 0.5
	MinUsefulTextLength        = 50
	PromptContentLimit         = 3000
	MaxEnhancedSearchResults   = 5
)
