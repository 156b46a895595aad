package vertex

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"

	"github.com/joseph-ayodele/medocs/internal/common"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("  Cholesterol "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("is elevated. "),
			}},
		}},
	}
	if got := responseText(resp); got != "Cholesterol is elevated." {
		t.Fatalf("responseText = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Fatalf("nil response gave %q", got)
	}
	if got := responseText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("empty response gave %q", got)
	}
}

func TestNewGeneratorRequiresProject(t *testing.T) {
	_, err := NewGenerator(context.Background(), common.LLMConfig{VertexRegion: "us-central1"}, nil)
	if !errors.Is(err, common.ErrAIUnavailable) {
		t.Fatalf("err = %v, want ErrAIUnavailable", err)
	}
}
