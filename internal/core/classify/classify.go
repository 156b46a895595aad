package classify

import (
	"strings"

	"github.com/joseph-ayodele/medocs/constants"
)

type rule struct {
	docType  constants.DocumentType
	keywords []string
}

// Rules in priority order; the first rule with a matching keyword wins.
var rules = []rule{
	{constants.Prescription, []string{"prescription", "rx:", "take as directed"}},
	{constants.LabResult, []string{"lab result", "laboratory", "test result"}},
	{constants.MedicalBill, []string{"bill", "invoice", "charges", "payment"}},
	{constants.DischargeSummary, []string{"discharge", "summary"}},
	{constants.ImagingReport, []string{"imaging", "x-ray", "mri", "ct scan"}},
	{constants.VaccinationRecord, []string{"vaccination", "immunization"}},
}

// Classify assigns exactly one document type using case-insensitive
// substring rules. Text matching no rule is constants.Other.
func Classify(text string) constants.DocumentType {
	t, _ := Explain(text)
	return t
}

// Explain is Classify plus the keyword that decided it ("" for Other).
func Explain(text string) (constants.DocumentType, string) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.docType, kw
			}
		}
	}
	return constants.Other, ""
}
