package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
)

var (
	_ llm.Generator       = (*Generator)(nil)
	_ llm.VisionGenerator = (*Generator)(nil)
)

// Generator adapts a Gemini model on Vertex AI to llm.Generator.
type Generator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

// NewGenerator dials Vertex AI with application default credentials.
func NewGenerator(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.VertexProject == "" || cfg.VertexRegion == "" {
		return nil, common.NewAppError(common.CodeAIUnavailable, "VERTEX_PROJECT_ID and VERTEX_AI_REGION are required", common.ErrAIUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, cfg.VertexProject, cfg.VertexRegion)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	name := cfg.VertexModel
	if name == "" {
		name = "gemini-1.5-pro"
	}
	model := client.GenerativeModel(name)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You assist patients in organising their own medical documents. Be factual and concise.")},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr(cfg.Temperature),
	}
	return &Generator{client: client, model: model, logger: logger.With("component", "vertex", "model", name)}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, "generate", genai.Text(prompt))
}

func (g *Generator) GenerateFromImage(ctx context.Context, prompt, mediaType string, image []byte) (string, error) {
	blob := genai.Blob{MIMEType: constants.NormalizeMediaType(mediaType), Data: image}
	return g.generate(ctx, "vision", genai.Text(prompt), blob)
}

func (g *Generator) generate(ctx context.Context, op string, parts ...genai.Part) (string, error) {
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		g.logger.Error("llm."+op+".vertex_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: vertex generate: %v", common.ErrUpstream, err)
	}
	text := responseText(resp)
	if text == "" {
		g.logger.Error("llm."+op+".empty_response", "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: empty vertex response", common.ErrParse)
	}
	g.logger.Debug("llm."+op+".ok", "content_len", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}

func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
