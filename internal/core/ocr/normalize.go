package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-=|]{3,}\s*$`)
)

var (
	reAlnumToken  = regexp.MustCompile(`[A-Za-z0-9]+`)
	reUnitMisread = regexp.MustCompile(`(?i)(\d)\s*(?:rng|rg|mq)\b`)
	reDoctorTitle = regexp.MustCompile(`(?i)\b(dr)\s*\.\s*`)
	reRxMarker    = regexp.MustCompile(`(?i)\b(rx)\s*:\s*`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// Medical tokens that legitimately mix letters with 0/1.
var protectedTokens = map[string]struct{}{
	"hba1c": {},
	"hb1ac": {},
	"a1c":   {},
	"h1n1":  {},
	"ige1":  {},
}

// Units, and their misreads, that may be glued to a leading dose digit
// ("1rng", "0mcg").
var unitTokens = map[string]struct{}{
	"mg": {}, "rng": {}, "rg": {}, "mq": {}, "mcg": {}, "meg": {}, "g": {},
	"gm": {}, "gram": {}, "grams": {}, "ml": {}, "iu": {}, "meq": {}, "mmol": {},
	"unit": {}, "units": {},
}

// Letters that commonly follow a leading count ("1tab", "1daily") and must
// keep their digit.
var countPrefixes = []string{
	"tab", "cap", "unit", "dose", "daily", "time", "day", "week", "month",
	"year", "hour", "min", "pill", "drop", "puff", "mcg", "ml",
}

// Normalize turns raw recognized text into the single-line form every
// extraction stage consumes. Steps run in order:
//
//  1. 0/1 digits misread for O/I inside words are repaired (alphabetic context only)
//  2. unit misreads after a number ("10 rng", "5rg") become "mg"
//  3. spacing around "Dr." and "Rx:" is fixed
//  4. whitespace runs collapse to one space, then the result is trimmed
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return normalizeSpacing(repairMisreads(s))
}

// repairMisreads runs the character substitution steps (1 and 2).
func repairMisreads(s string) string {
	s = reAlnumToken.ReplaceAllStringFunc(s, repairDigitConfusion)
	return reUnitMisread.ReplaceAllString(s, "${1} mg")
}

// normalizeSpacing runs the punctuation and whitespace steps (3 and 4).
func normalizeSpacing(s string) string {
	s = reDoctorTitle.ReplaceAllString(s, "${1}. ")
	s = reRxMarker.ReplaceAllString(s, "${1}: ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// repairDigitConfusion rewrites a single 0 or 1 inside an otherwise alphabetic
// token. Tokens with any other digit, or with more than one 0/1, are numeric
// data and pass through untouched.
func repairDigitConfusion(tok string) string {
	idx := -1
	letters := 0
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c == '0' || c == '1':
			if idx >= 0 {
				return tok
			}
			idx = i
		case c >= '0' && c <= '9':
			return tok
		default:
			letters++
		}
	}
	if idx < 0 || letters == 0 {
		return tok
	}
	if _, ok := protectedTokens[strings.ToLower(tok)]; ok {
		return tok
	}

	var repl byte
	switch {
	case idx > 0 && idx < len(tok)-1:
		repl = letterFor(tok[idx], isLower(tok[idx-1]))
	case idx == 0:
		rest := strings.ToLower(tok[1:])
		if _, unit := unitTokens[rest]; unit || len(rest) < 3 || hasCountPrefix(rest) {
			return tok
		}
		repl = letterFor(tok[idx], false)
	default:
		if idx < 3 {
			return tok
		}
		repl = letterFor(tok[idx], isLower(tok[idx-1]))
	}
	return tok[:idx] + string(repl) + tok[idx+1:]
}

func letterFor(digit byte, lower bool) byte {
	switch {
	case digit == '0' && lower:
		return 'o'
	case digit == '0':
		return 'O'
	case lower:
		return 'i'
	default:
		return 'I'
	}
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func hasCountPrefix(s string) bool {
	for _, p := range countPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// NormalizeLayout cleans OCR output for display and storage while keeping
// line structure: CRLF, tabs, repeated spaces, ruled lines and runs of blank
// lines are collapsed.
func NormalizeLayout(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
