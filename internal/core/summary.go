package core

import (
	"slices"
	"strings"
	"time"

	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// Summarize builds a short deterministic summary from the pipeline output:
// type, provider and date, then medications and lab results.
func Summarize(res entity.ProcessedResult) string {
	var b strings.Builder
	b.WriteString(res.DocumentType.Label())
	if name := entity.StrOrEmpty(res.Record.ProviderName); name != "" {
		b.WriteString(" from Dr. ")
		b.WriteString(name)
	}
	if d := entity.StrOrEmpty(res.Record.Date); d != "" {
		b.WriteString(" dated ")
		b.WriteString(d)
	}
	b.WriteString(".")

	meds, labs := medicationPhrases(res.Entities), labPhrases(res.Entities)
	if len(meds) > 0 {
		b.WriteString(" Medications: ")
		b.WriteString(strings.Join(meds, ", "))
		b.WriteString(".")
	}
	if len(labs) > 0 {
		b.WriteString(" Results: ")
		b.WriteString(strings.Join(labs, ", "))
		b.WriteString(".")
	}
	if len(meds) == 0 && len(labs) == 0 {
		if excerpt := strings.TrimSpace(llm.TruncateRunes(res.Text, 160)); excerpt != "" {
			b.WriteString(" ")
			b.WriteString(excerpt)
		}
	}
	return b.String()
}

// medicationPhrases renders each distinct medication once, keeping the first
// dosage seen for it.
func medicationPhrases(entities []entity.Entity) []string {
	var names []string
	dosage := map[string]string{}
	display := map[string]string{}
	for _, e := range entities {
		if e.Kind != entity.KindMedication {
			continue
		}
		key := strings.ToLower(e.Name)
		if _, seen := display[key]; !seen {
			display[key] = e.Name
			names = append(names, key)
		}
		if dosage[key] == "" && e.Dosage != nil {
			dosage[key] = *e.Dosage
		}
	}
	out := make([]string, 0, len(names))
	for _, k := range names {
		phrase := display[k]
		if d := dosage[k]; d != "" {
			phrase += " " + d
		}
		out = append(out, phrase)
	}
	return out
}

func labPhrases(entities []entity.Entity) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range entities {
		if e.Kind != entity.KindLabValue || seen[strings.ToLower(e.Test)] {
			continue
		}
		seen[strings.ToLower(e.Test)] = true
		phrase := e.Test + " " + e.Value
		if e.Unit != "" {
			phrase += " " + e.Unit
		}
		out = append(out, phrase)
	}
	return out
}

// Tags derives search tags: document type, medication names and lab test
// names, lowercased, deduplicated and sorted.
func Tags(res entity.ProcessedResult) []string {
	tags := []string{string(res.DocumentType)}
	if kw := strings.Trim(res.ClassifiedBy, " :"); kw != "" {
		tags = append(tags, kw)
	}
	for _, e := range res.Entities {
		switch e.Kind {
		case entity.KindMedication:
			tags = append(tags, strings.ToLower(e.Name))
		case entity.KindLabValue:
			tags = append(tags, strings.ToLower(e.Test))
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

var dateLayouts = []string{"1/2/2006", "1/2/06"}

// DocumentDate parses an extracted MM/DD/YYYY or M/D/YY date ("-" separators
// accepted). Missing or invalid dates yield fallback's calendar day in UTC.
func DocumentDate(raw *string, fallback time.Time) time.Time {
	if s := strings.ReplaceAll(strings.TrimSpace(entity.StrOrEmpty(raw)), "-", "/"); s != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	f := fallback.UTC()
	return time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
}
