package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
	"github.com/joseph-ayodele/medocs/internal/repository"
)

const scenarioA = "Rx: Lisinopril 10 rng daily. Dr. Johnson 03/15/2024"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRecognizer struct {
	res    entity.RawOCRResult
	err    error
	calls  int
	method constants.OCRMethod
}

func (f *fakeRecognizer) Recognize(_ context.Context, method constants.OCRMethod, _ string, _ []byte) (entity.RawOCRResult, error) {
	f.calls++
	f.method = method
	return f.res, f.err
}

func TestProcessTextScenarioA(t *testing.T) {
	p := NewProcessor(quietLogger(), nil, nil)
	res := p.ProcessText(entity.RawOCRResult{Text: scenarioA, Confidence: 0.9})

	if !strings.Contains(res.Text, "10 mg") || strings.Contains(res.Text, "rng") {
		t.Fatalf("normalized text = %q", res.Text)
	}
	if res.DocumentType != constants.Prescription {
		t.Errorf("type = %q, want prescription", res.DocumentType)
	}

	var med, provider, date bool
	for _, e := range res.Entities {
		switch e.Kind {
		case entity.KindMedication:
			if e.Name == "Lisinopril" && e.Dosage != nil && strings.Contains(*e.Dosage, "10 mg") {
				med = true
			}
		case entity.KindProvider:
			provider = provider || e.Name == "Johnson"
		case entity.KindDate:
			date = date || e.Value == "03/15/2024"
		}
	}
	if !med || !provider || !date {
		t.Errorf("entities missing (med=%v provider=%v date=%v): %+v", med, provider, date, res.Entities)
	}
	if got := entity.StrOrEmpty(res.Record.ProviderName); got != "Johnson" {
		t.Errorf("record provider = %q", got)
	}
	if res.Suggestions == nil {
		t.Error("suggestions must be a non-nil list")
	}
}

func TestProcessTextClampsConfidence(t *testing.T) {
	p := NewProcessor(nil, nil, nil)
	if got := p.ProcessText(entity.RawOCRResult{Text: "x", Confidence: 1.7}).Confidence; got != 1 {
		t.Errorf("confidence = %v, want 1", got)
	}
	res := p.ProcessText(entity.RawOCRResult{})
	if res.DocumentType != constants.Other || len(res.Entities) != 0 || res.Entities == nil {
		t.Errorf("empty input result = %+v", res)
	}
}

func TestProcessUpload(t *testing.T) {
	rec := &fakeRecognizer{res: entity.RawOCRResult{Text: scenarioA, Confidence: 0.88, Engine: "fake"}}
	store := repository.NewMemoryStore()
	fixed := time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)
	p := NewProcessor(quietLogger(), rec, store, WithClock(func() time.Time { return fixed }))

	out, err := p.ProcessUpload(context.Background(), Upload{
		Name:        " bp-refill.png ",
		ContentType: "image/png",
		Data:        pngBytes,
	})
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if rec.method != constants.OCRMethodAuto {
		t.Errorf("method = %q, want auto", rec.method)
	}

	doc := out.Document
	if doc.Name != "bp-refill.png" || doc.Type != constants.Prescription {
		t.Errorf("doc = %+v", doc)
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !doc.Date.Equal(want) {
		t.Errorf("date = %v, want %v", doc.Date, want)
	}
	if got := entity.StrOrEmpty(doc.Doctor); got != "Johnson" {
		t.Errorf("doctor = %q", got)
	}
	wantSummary := "Prescription from Dr. Johnson dated 03/15/2024. Medications: Lisinopril 10 mg."
	if got := entity.StrOrEmpty(doc.Summary); got != wantSummary {
		t.Errorf("summary = %q, want %q", got, wantSummary)
	}
	if !slices.Equal(doc.Tags, []string{"lisinopril", "prescription", "rx"}) {
		t.Errorf("tags = %v", doc.Tags)
	}
	if got := entity.StrOrEmpty(doc.Content); got != scenarioA {
		t.Errorf("content = %q", got)
	}

	all, err := store.All(context.Background())
	if err != nil || len(all) != 1 || all[0].ID != doc.ID {
		t.Fatalf("store = %+v, err = %v", all, err)
	}
}

func TestProcessUploadRejectsBeforeOCR(t *testing.T) {
	tests := []struct {
		name string
		up   Upload
		want error
	}{
		{"missing name", Upload{ContentType: "image/png", Data: pngBytes}, common.ErrValidation},
		{"bad method", Upload{Name: "a.png", ContentType: "image/png", Data: pngBytes, Method: "fax"}, common.ErrValidation},
		{"pdf", Upload{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}, common.ErrUnsupportedMedia},
		{"empty", Upload{Name: "a.png", ContentType: "image/png"}, common.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{}
			p := NewProcessor(quietLogger(), rec, repository.NewMemoryStore())
			_, err := p.ProcessUpload(context.Background(), tt.up)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !common.IsInputRejection(err) {
				t.Errorf("err %v is not an input rejection", err)
			}
			if rec.calls != 0 {
				t.Errorf("recognizer called %d times", rec.calls)
			}
		})
	}
}

func TestProcessUploadSurfacesOCRFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	p := NewProcessor(quietLogger(), &fakeRecognizer{err: common.ErrUpstream}, store)
	_, err := p.ProcessUpload(context.Background(), Upload{Name: "a.png", ContentType: "image/png", Data: pngBytes})
	if !errors.Is(err, common.ErrUpstream) {
		t.Fatalf("err = %v", err)
	}
	if all, _ := store.All(context.Background()); len(all) != 0 {
		t.Errorf("nothing should be stored, got %d", len(all))
	}
}

func TestProcessUploadSummaryFallback(t *testing.T) {
	tests := []struct {
		name  string
		gen   llm.GeneratorFunc
		want  string
		exact bool
	}{
		{
			name:  "ai summary",
			gen:   func(context.Context, string) (string, error) { return "  Blood pressure refill.  ", nil },
			want:  "Blood pressure refill.",
			exact: true,
		},
		{
			name: "ai failure",
			gen:  func(context.Context, string) (string, error) { return "", common.ErrAIUnavailable },
			want: "Prescription from Dr. Johnson",
		},
		{
			name: "ai blank",
			gen:  func(context.Context, string) (string, error) { return "   ", nil },
			want: "Prescription from Dr. Johnson",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{res: entity.RawOCRResult{Text: scenarioA, Confidence: 0.9}}
			p := NewProcessor(quietLogger(), rec, repository.NewMemoryStore(), WithSummarizer(tt.gen, time.Second))
			out, err := p.ProcessUpload(context.Background(), Upload{Name: "a.png", ContentType: "image/png", Data: pngBytes})
			if err != nil {
				t.Fatalf("ProcessUpload: %v", err)
			}
			got := entity.StrOrEmpty(out.Document.Summary)
			if tt.exact && got != tt.want || !tt.exact && !strings.HasPrefix(got, tt.want) {
				t.Errorf("summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentDate(t *testing.T) {
	fallback := time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"3/5/24", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"12-01-2023", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"13/45/2024", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		raw := entity.StrPtr(tt.raw)
		if got := DocumentDate(raw, fallback); !got.Equal(tt.want) {
			t.Errorf("DocumentDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSummarizeWithoutFacts(t *testing.T) {
	res := entity.ProcessedResult{Text: "Invoice for services rendered", DocumentType: constants.MedicalBill}
	if got, want := Summarize(res), "Medical bill. Invoice for services rendered"; got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestTagsDeduplicated(t *testing.T) {
	res := entity.ProcessedResult{
		DocumentType: constants.LabResult,
		Entities: []entity.Entity{
			entity.NewLabValue("Glucose", "95", "mg/dL", 0.9, ""),
			entity.NewMedication("Metformin", nil, 0.85, ""),
			entity.NewMedication("metformin", nil, 0.85, ""),
			entity.NewProvider("Lee", 0.8, ""),
		},
	}
	if got, want := Tags(res), []string{"glucose", "lab_result", "metformin"}; !slices.Equal(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestTagsIncludeClassificationKeyword(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Rx: Amoxicillin 500 mg", []string{"amoxicillin", "prescription", "rx"}},
		{"Laboratory panel. Glucose 95 mg/dL", []string{"glucose", "lab_result", "laboratory"}},
		{"Hello there", []string{"other"}},
	}
	p := NewProcessor(quietLogger(), nil, nil)
	for _, tt := range tests {
		res := p.ProcessText(entity.RawOCRResult{Text: tt.text, Confidence: 0.9})
		if got := Tags(res); !slices.Equal(got, tt.want) {
			t.Errorf("Tags(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
