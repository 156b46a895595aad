package extract

import (
	"regexp"
	"strings"
)

// Fixed per-pattern confidence weights.
const (
	confMedication = 0.85
	confLab        = 0.90
	confProvider   = 0.80
	confDate       = 0.95
)

var medicationVocabulary = []string{
	"lisinopril", "metformin", "atorvastatin", "simvastatin", "rosuvastatin",
	"amlodipine", "metoprolol", "atenolol", "losartan", "hydrochlorothiazide",
	"furosemide", "levothyroxine", "omeprazole", "pantoprazole", "albuterol",
	"gabapentin", "sertraline", "fluoxetine", "amoxicillin", "azithromycin",
	"ciprofloxacin", "doxycycline", "ibuprofen", "acetaminophen", "paracetamol",
	"aspirin", "prednisone", "insulin", "warfarin", "clopidogrel", "montelukast",
}

var medicationSuffixes = []string{
	"pril", "olol", "statin", "formin", "cillin", "mycin", "sartan", "dipine",
	"prazole", "oxetine", "azepam", "floxacin", "cycline", "tidine", "triptan",
}

const dosageTail = `(?:\s+(\d+(?:\.\d+)?)\s*mg\b)?`

var (
	reMedVocab = regexp.MustCompile(`(?i)\b(` + strings.Join(medicationVocabulary, "|") + `)\b` + dosageTail)

	reMedSuffix = regexp.MustCompile(`(?i)\b([a-z]{2,}(?:` + strings.Join(medicationSuffixes, "|") + `))\b` + dosageTail)

	reRxMarker = regexp.MustCompile(`\b(?i:rx):\s*([A-Z][a-zA-Z]+)`)

	// A trailing joiner left behind when the next medication cuts an
	// instruction short ("daily with Metformin").
	reTrailingJoiner = regexp.MustCompile(`(?i)[\s,:\-–]*\b(?:and|with|plus|then|or)\s*$`)
)

type labPattern struct {
	re *regexp.Regexp
}

const labValueSep = `[:=\s]*`

// Each lab pattern captures test name, numeric value and optional unit.
var labPatterns = []labPattern{
	{regexp.MustCompile(`(?i)\b(hba[1il]c|a1c)\b` + labValueSep + `(\d+(?:\.\d+)?)\s*(%)?`)},
	{regexp.MustCompile(`(?i)\b(glucose)\b` + labValueSep + `(\d+(?:\.\d+)?)\s*(mg/dl|mmol/l)?`)},
	{regexp.MustCompile(`(?i)\b(total cholesterol|cholesterol|ldl(?: cholesterol)?|hdl(?: cholesterol)?|triglycerides)\b` + labValueSep + `(\d+(?:\.\d+)?)\s*(mg/dl|mmol/l)?`)},
	{regexp.MustCompile(`(?i)\b(blood pressure|bp)\b` + labValueSep + `(\d{2,3}/\d{2,3})\s*(mmhg)?`)},
	{regexp.MustCompile(`(?i)\b(weight)\b` + labValueSep + `(\d+(?:\.\d+)?)\s*(kg|lbs?|pounds)?\b`)},
	{regexp.MustCompile(`(?i)\b(height)\b` + labValueSep + `(\d+(?:\.\d+)?)\s*(cm|in|inches|ft|m)?\b`)},
}

var labNames = map[string]string{
	"hba1c":             "HbA1c",
	"hbaic":             "HbA1c",
	"hbalc":             "HbA1c",
	"a1c":               "HbA1c",
	"glucose":           "Glucose",
	"cholesterol":       "Cholesterol",
	"total cholesterol": "Total Cholesterol",
	"ldl":               "LDL",
	"ldl cholesterol":   "LDL",
	"hdl":               "HDL",
	"hdl cholesterol":   "HDL",
	"triglycerides":     "Triglycerides",
	"blood pressure":    "Blood Pressure",
	"bp":                "Blood Pressure",
	"weight":            "Weight",
	"height":            "Height",
}

var (
	reProvider = regexp.MustCompile(`\b(?:Dr\.?|Doctor|Provider:|Physician:)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	reDate = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)

	rePatient = regexp.MustCompile(`\b(?i:patient(?:\s+name)?|name)\s*:?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`)

	reFacility = regexp.MustCompile(`\b((?:[A-Z][a-zA-Z'.]+\s+){1,4}(?:Hospital|Clinic|Medical Center|Health Center|Laboratories|Laboratory|Imaging))\b`)

	reContextSpace = regexp.MustCompile(`\s+`)
)

// canonicalLabName maps a matched test label onto its display name.
func canonicalLabName(raw string) string {
	key := strings.ToLower(reContextSpace.ReplaceAllString(strings.TrimSpace(raw), " "))
	if name, ok := labNames[key]; ok {
		return name
	}
	return raw
}
