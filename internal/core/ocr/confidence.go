package ocr

import (
	"regexp"
	"strings"
)

var (
	reHeurDate   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	reHeurDosage = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:mg|mcg|ml|g|units?|mmol/l|mg/dl|%)\b`)
	reHeurTerms  = regexp.MustCompile(`\b(?:patient|dr\.?|rx|prescription|diagnosis|laboratory|lab|hospital|clinic|dose|tablet)\b`)
)

// heuristicConfidence scores decoded text by how much it looks like a medical
// document. It is blended with the engine's own confidence when available.
func heuristicConfidence(txt string) float64 {
	txtL := strings.ToLower(txt)
	score := 0.2
	if reHeurDate.MatchString(txtL) {
		score += 0.2
	}
	if reHeurDosage.MatchString(txtL) {
		score += 0.15
	}
	if reHeurTerms.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if strings.TrimSpace(txt) == "" {
		score = 0
	}
	return min(score, 1.0)
}

// blendConfidence weights the engine score over the heuristic when present.
func blendConfidence(engine, heuristic float64) float64 {
	if engine <= 0 {
		return heuristic
	}
	return min(0.7*engine+0.3*heuristic, 1.0)
}
