package llm

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`, true},
		{"wrapped in prose", "Sure! Here you go:\n[{\"documentName\":\"x\"}]\nHope that helps.", `[{"documentName":"x"}]`, true},
		{"object first", `answer: {"text":"hi"} and [1,2]`, `{"text":"hi"}`, true},
		{"brackets inside strings", `{"text":"a ] } [ { b"}`, `{"text":"a ] } [ { b"}`, true},
		{"escaped quote", `{"text":"say \"]\" now"} trailing`, `{"text":"say \"]\" now"}`, true},
		{"nested", `x {"a":[{"b":{}}]} y`, `{"a":[{"b":{}}]}`, true},
		{"unbalanced then valid", `[ oops } {"ok":true}`, `{"ok":true}`, true},
		{"no json", "nothing to see", "", false},
		{"unterminated", `{"a": [1, 2`, "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractJSON(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	var hits []SemanticHit
	reply := "Results:\n```json\n[{\"documentName\":\"Lab 1\",\"date\":\"2024-03-15\",\"content\":\"LDL 130\"}]\n```"
	if err := DecodeResponse(reply, SemanticResultsSchema(), &hits); err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentName != "Lab 1" || hits[0].Content != "LDL 130" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	bad := []string{
		"no json at all",
		`[{"date":"2024-01-01"}]`,
		`{"documentName":"not an array","content":"x"}`,
	}
	for _, reply := range bad {
		var out []SemanticHit
		err := DecodeResponse(reply, SemanticResultsSchema(), &out)
		if !errors.Is(err, common.ErrParse) {
			t.Errorf("DecodeResponse(%q) error = %v, want ErrParse", reply, err)
		}
	}

	var vt VisionText
	if err := DecodeResponse(`{"text":"Rx: Lisinopril","confidence":0.92}`, VisionTextSchema(), &vt); err != nil {
		t.Fatalf("vision decode: %v", err)
	}
	if vt.Text != "Rx: Lisinopril" || vt.Confidence != 0.92 {
		t.Fatalf("unexpected vision text: %+v", vt)
	}
	if err := DecodeResponse(`{"text":"x","confidence":7}`, VisionTextSchema(), &vt); !errors.Is(err, common.ErrParse) {
		t.Fatalf("out of range confidence accepted: %v", err)
	}
}

func TestPromptsTruncateContent(t *testing.T) {
	long := strings.Repeat("é", constants.PromptContentLimit+500)
	doc := entity.StoredDocument{
		Name:    "Discharge note",
		Type:    constants.DischargeSummary,
		Date:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Content: &long,
	}
	p := BuildEnhancePrompt("what happened?", doc)
	if n := strings.Count(p, "é"); n != constants.PromptContentLimit {
		t.Fatalf("enhance prompt carries %d content runes, want %d", n, constants.PromptContentLimit)
	}
	if !strings.Contains(p, "2024-03-15") || !strings.Contains(p, "what happened?") {
		t.Fatalf("enhance prompt missing date or question:\n%s", p)
	}

	summary := "Cholesterol levels slightly elevated"
	doc.Summary = &summary
	doc.Tags = []string{"lab_result", "ldl"}
	sp := BuildSemanticSearchPrompt("heart", []entity.StoredDocument{doc})
	for _, want := range []string{"Discharge note", "Discharge summary", "2024-03-15", summary, "lab_result, ldl", "Query: heart"} {
		if !strings.Contains(sp, want) {
			t.Errorf("semantic prompt missing %q", want)
		}
	}
	if strings.Contains(sp, "é") {
		t.Error("semantic prompt must not carry document content")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo", 2); got != "hé" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateRunes("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateRunes("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
