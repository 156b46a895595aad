package quality

import (
	"slices"
	"strings"
	"testing"
)

const goodText = "Patient: Jane Doe. Rx: Lisinopril 10 mg daily. Dr. Johnson 03/15/2024. Refills: 2"

func TestAdvise(t *testing.T) {
	tests := []struct {
		name string
		conf float64
		text string
		want []string
	}{
		{"clean", 0.95, goodText, []string{}},
		{"low", 0.6, goodText, []string{SuggestResolution, SuggestLighting, SuggestDeskew}},
		{"very low", 0.3, goodText, []string{SuggestResolution, SuggestLighting, SuggestDeskew, SuggestCloudOCR, SuggestManual}},
		{"boundary 0.7 is fine", 0.7, goodText, []string{}},
		{"boundary 0.5 is low only", 0.5, goodText, []string{SuggestResolution, SuggestLighting, SuggestDeskew}},
		// short text without digits at high confidence
		{"short no digits", 0.9, "Dear patient welcome", []string{SuggestReadableText, SuggestMissingNumber}},
		{"empty", 0.1, "", []string{SuggestResolution, SuggestLighting, SuggestDeskew, SuggestCloudOCR, SuggestManual, SuggestReadableText, SuggestMissingNumber}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advise(tt.conf, tt.text)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Advise(%v) =\n%q\nwant\n%q", tt.conf, got, tt.want)
			}
		})
	}
}

func TestAdviseShortTextScenario(t *testing.T) {
	text := strings.Repeat("a", 20)
	got := Advise(0.9, text)
	if !slices.Contains(got, SuggestMissingNumber) || !slices.Contains(got, SuggestReadableText) {
		t.Fatalf("missing text/number suggestions: %q", got)
	}
	for _, s := range []string{SuggestResolution, SuggestLighting, SuggestDeskew, SuggestCloudOCR, SuggestManual} {
		if slices.Contains(got, s) {
			t.Fatalf("unexpected low-confidence suggestion %q", s)
		}
	}
}

func TestAdviseMonotone(t *testing.T) {
	texts := []string{goodText, "", "short", strings.Repeat("no digits here ", 10)}
	confs := []float64{1, 0.9, 0.7, 0.69, 0.6, 0.5, 0.49, 0.3, 0}
	for _, text := range texts {
		for i := 1; i < len(confs); i++ {
			higher := Advise(confs[i-1], text)
			lower := Advise(confs[i], text)
			for _, s := range higher {
				if !slices.Contains(lower, s) {
					t.Fatalf("text %q: suggestion %q at %v missing at %v", text, s, confs[i-1], confs[i])
				}
			}
		}
	}
	if a, b := Advise(0.3, goodText), Advise(0.6, goodText); len(a) <= len(b) {
		t.Fatalf("0.3 should add suggestions over 0.6: %d vs %d", len(a), len(b))
	}
}
