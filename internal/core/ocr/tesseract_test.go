package ocr

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"testing"
)

type fakeRunner struct {
	text  string
	tsv   string
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("tesseract: cannot read image"), f.err
	}
	if _, err := os.Stat(args[0]); err != nil {
		return nil, nil, err
	}
	if slices.Contains(args, "tsv") {
		return []byte(f.tsv), nil, nil
	}
	return []byte(f.text), nil, nil
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t40\t12\t90.5\tRx:\n" +
	"5\t1\t1\t1\t1\t2\t60\t10\t80\t12\t70.5\tLisinopril\n"

func TestTesseractRecognize(t *testing.T) {
	r := &fakeRunner{
		text: "Rx: Lisinopril 10 mg\r\n\r\n\r\n\r\nDr. Johnson 03/15/2024\t\n",
		tsv:  sampleTSV,
	}
	eng := NewTesseract(TesseractConfig{Lang: "eng", PSM: 6, TSVConfidence: true}, r, quietLogger())
	res, err := eng.Recognize(context.Background(), "image/png", pngBytes)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Text != "Rx: Lisinopril 10 mg\n\nDr. Johnson 03/15/2024" {
		t.Fatalf("text = %q", res.Text)
	}
	// tsv mean 0.805, heuristic 0.2 + date 0.2 + dosage 0.15 + terms 0.15 = 0.7
	want := 0.7*0.805 + 0.3*0.7
	if math.Abs(res.Confidence-want) > 1e-9 {
		t.Fatalf("confidence = %v, want %v", res.Confidence, want)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected text and tsv runs, got %d", len(r.calls))
	}
	args := strings.Join(r.calls[0], " ")
	if !strings.Contains(args, "stdout -l eng --psm 6") {
		t.Fatalf("unexpected args %q", args)
	}
	if _, err := os.Stat(r.calls[0][1]); !os.IsNotExist(err) {
		t.Fatalf("temp image %s was not removed", r.calls[0][1])
	}
}

func TestTesseractFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	eng := NewTesseract(TesseractConfig{}, r, quietLogger())
	if _, err := eng.Recognize(context.Background(), "image/png", pngBytes); err == nil {
		t.Fatal("expected error")
	}
	if r.calls[0][0] != "tesseract" {
		t.Fatalf("default binary not applied: %v", r.calls[0])
	}
}

func TestMeanTSVConfidence(t *testing.T) {
	if got := meanTSVConfidence(sampleTSV); math.Abs(got-0.805) > 1e-9 {
		t.Fatalf("mean = %v", got)
	}
	if got := meanTSVConfidence("header only\n"); got != 0 {
		t.Fatalf("mean of nothing = %v", got)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	if got := heuristicConfidence("   "); got != 0 {
		t.Fatalf("blank text scored %v", got)
	}
	low := heuristicConfidence("hello world")
	high := heuristicConfidence("Patient: Jane Doe. Rx: Metformin 500 mg twice daily. Dr. Patel 01/02/2024")
	if !(high > low) || high > 1 {
		t.Fatalf("heuristic low=%v high=%v", low, high)
	}
	if blendConfidence(0, 0.4) != 0.4 {
		t.Fatal("blend without engine score should use the heuristic")
	}
}
