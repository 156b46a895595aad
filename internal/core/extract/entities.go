package extract

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/medocs/internal/entity"
)

const contextRadius = 40

// positioned keeps the match offset so a group can be ordered left to right.
type positioned struct {
	at int
	e  entity.Entity
}

// Entities runs every pattern group over normalized text. Groups are emitted
// in the order medications, lab values, providers, dates; inside a group
// entities follow their position in the text. Overlapping matches from
// different patterns are all kept.
func Entities(text string) []entity.Entity {
	out := make([]entity.Entity, 0)
	if strings.TrimSpace(text) == "" {
		return out
	}
	out = appendGroup(out, medications(text))
	out = appendGroup(out, labValues(text))
	out = appendGroup(out, providers(text))
	out = appendGroup(out, dates(text))
	return out
}

func appendGroup(out []entity.Entity, group []positioned) []entity.Entity {
	slices.SortStableFunc(group, func(a, b positioned) int { return a.at - b.at })
	for _, p := range group {
		out = append(out, p.e)
	}
	return out
}

func medications(text string) []positioned {
	var group []positioned
	for _, re := range []*regexp.Regexp{reMedVocab, reMedSuffix} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			var dosage *string
			if m[4] >= 0 {
				d := text[m[4]:m[5]] + " mg"
				dosage = &d
			}
			group = append(group, positioned{
				at: m[2],
				e:  entity.NewMedication(name, dosage, confMedication, contextAround(text, m[0], m[1])),
			})
		}
	}
	for _, m := range reRxMarker.FindAllStringSubmatchIndex(text, -1) {
		group = append(group, positioned{
			at: m[2],
			e:  entity.NewMedication(text[m[2]:m[3]], nil, confMedication, contextAround(text, m[0], m[1])),
		})
	}
	return group
}

func labValues(text string) []positioned {
	var group []positioned
	for _, p := range labPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			unit := ""
			if m[6] >= 0 {
				unit = text[m[6]:m[7]]
			}
			group = append(group, positioned{
				at: m[0],
				e: entity.NewLabValue(
					canonicalLabName(text[m[2]:m[3]]),
					text[m[4]:m[5]],
					unit,
					confLab,
					contextAround(text, m[0], m[1]),
				),
			})
		}
	}
	return group
}

func providers(text string) []positioned {
	var group []positioned
	for _, m := range reProvider.FindAllStringSubmatchIndex(text, -1) {
		group = append(group, positioned{
			at: m[0],
			e:  entity.NewProvider(text[m[2]:m[3]], confProvider, contextAround(text, m[0], m[1])),
		})
	}
	return group
}

func dates(text string) []positioned {
	var group []positioned
	for _, m := range reDate.FindAllStringSubmatchIndex(text, -1) {
		group = append(group, positioned{
			at: m[0],
			e:  entity.NewDateMention(text[m[2]:m[3]], confDate, contextAround(text, m[0], m[1])),
		})
	}
	return group
}

// contextAround returns the match widened by contextRadius bytes on each
// side, snapped to rune boundaries and whitespace-collapsed.
func contextAround(text string, start, end int) string {
	lo := max(start-contextRadius, 0)
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	hi := min(end+contextRadius, len(text))
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return strings.TrimSpace(reContextSpace.ReplaceAllString(text[lo:hi], " "))
}
