package extract

import (
	"strings"

	"github.com/joseph-ayodele/medocs/internal/entity"
)

// BuildRecord derives a best-effort structured record from normalized text.
// Identity fields keep their first match; medications collect every match.
func BuildRecord(text string) entity.StructuredRecord {
	rec := entity.StructuredRecord{Medications: make([]entity.MedicationLine, 0)}
	if strings.TrimSpace(text) == "" {
		return rec
	}
	if m := rePatient.FindStringSubmatch(text); m != nil {
		rec.PatientName = entity.StrPtr(m[1])
	}
	if m := reProvider.FindStringSubmatch(text); m != nil {
		rec.ProviderName = entity.StrPtr(m[1])
	}
	if m := reDate.FindStringSubmatch(text); m != nil {
		rec.Date = entity.StrPtr(m[1])
	}
	matches := reMedVocab.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		line := entity.MedicationLine{
			Name:         text[m[2]:m[3]],
			Instructions: instructions(text[m[1]:end]),
		}
		if m[4] >= 0 {
			line.Dosage = text[m[4]:m[5]] + " mg"
		}
		rec.Medications = append(rec.Medications, line)
	}
	return rec
}

// instructions keeps the free text after a medication up to the sentence
// boundary.
func instructions(s string) string {
	if i := strings.IndexAny(s, ".;\n"); i >= 0 {
		s = s[:i]
	}
	s = reTrailingJoiner.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Trim(s, " ,:-–"))
}

// Facility returns the first hospital, clinic or lab name in text, or nil.
func Facility(text string) *string {
	m := reFacility.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return entity.StrPtr(strings.TrimSpace(m[1]))
}
