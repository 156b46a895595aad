package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/medocs/internal/entity"
	"github.com/joseph-ayodele/medocs/internal/repository"
)

// Service produces XLSX workbooks (as bytes) from the document store and from search results.
type Service struct {
	store  repository.DocumentStore
	logger *slog.Logger
}

func NewService(store repository.DocumentStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

const (
	documentsSheet = "Documents"
	resultsSheet   = "Search Results"
)

// DocumentsXLSX exports stored documents whose date falls in the window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> every document.
func (s *Service) DocumentsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()
	fromDate, toDate := window(from, to)

	docs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	f, err := newWorkbook(documentsSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	writeRow(f, documentsSheet, 1, "Date", "Name", "Type", "Doctor", "Hospital", "Tags", "Confidence", "Summary")
	row := 2
	for _, d := range docs {
		day := dateOnly(d.Date)
		if fromDate != nil && day.Before(*fromDate) || toDate != nil && day.After(*toDate) {
			continue
		}
		writeRow(f, documentsSheet, row,
			d.Date.Format(entity.DateLayout),
			d.Name,
			d.Type.Label(),
			entity.StrOrEmpty(d.Doctor),
			entity.StrOrEmpty(d.Hospital),
			strings.Join(d.Tags, ", "),
			d.Confidence,
			truncate(entity.StrOrEmpty(d.Summary), 500),
		)
		row++
	}

	_ = f.SetColWidth(documentsSheet, "A", "A", 12) // date
	_ = f.SetColWidth(documentsSheet, "B", "B", 32) // name
	_ = f.SetColWidth(documentsSheet, "C", "C", 20) // type
	_ = f.SetColWidth(documentsSheet, "D", "E", 24) // doctor, hospital
	_ = f.SetColWidth(documentsSheet, "F", "F", 36) // tags
	_ = f.SetColWidth(documentsSheet, "G", "G", 12) // confidence
	_ = f.SetColWidth(documentsSheet, "H", "H", 80) // summary

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.documents.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// SearchResultsXLSX exports one query's results in result order.
func (s *Service) SearchResultsXLSX(query string, results []entity.SearchResult) ([]byte, error) {
	f, err := newWorkbook(resultsSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	writeRow(f, resultsSheet, 1, "Query", query)
	writeRow(f, resultsSheet, 3, "Document", "Date", "Type", "Answer")
	for i, r := range results {
		writeRow(f, resultsSheet, i+4, r.DocumentName, r.Date, r.OriginalDoc.Type.Label(), r.Content)
	}
	_ = f.SetColWidth(resultsSheet, "A", "A", 32)
	_ = f.SetColWidth(resultsSheet, "B", "C", 16)
	_ = f.SetColWidth(resultsSheet, "D", "D", 90)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Debug("export.search.ok", "rows", len(results))
	return buf.Bytes(), nil
}

// newWorkbook replaces the default sheet with name and makes it active.
func newWorkbook(name string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func window(from, to *time.Time) (*time.Time, *time.Time) {
	var fromDate, toDate *time.Time
	if from != nil {
		f := dateOnly(*from)
		fromDate = &f
	}
	if to != nil {
		t := dateOnly(*to)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		t := dateOnly(time.Now())
		toDate = &t
	}
	return fromDate, toDate
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
