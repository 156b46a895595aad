package llm

import "context"

// Generator is the narrow capability every AI backend adapter provides:
// prompt in, text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionGenerator answers a prompt about an attached image.
type VisionGenerator interface {
	GenerateFromImage(ctx context.Context, prompt, mediaType string, image []byte) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// SemanticHit is one element of the semantic search response.
type SemanticHit struct {
	DocumentName string `json:"documentName"`
	Date         string `json:"date"`
	Content      string `json:"content"`
}

// VisionText is the response shape of the cloud OCR prompt.
type VisionText struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
