package constants

import (
	"strings"
)

type DocumentType string

const (
	Prescription      DocumentType = "prescription"
	LabResult         DocumentType = "lab_result"
	MedicalBill       DocumentType = "medical_bill"
	DischargeSummary  DocumentType = "discharge_summary"
	ImagingReport     DocumentType = "imaging_report"
	VaccinationRecord DocumentType = "vaccination_record"
	Other             DocumentType = "other"
)

var allDocumentTypes = []DocumentType{
	Prescription,
	LabResult,
	MedicalBill,
	DischargeSummary,
	ImagingReport,
	VaccinationRecord,
	Other,
}

func DocumentTypesAsStrings() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// Label is the human readable form used in summaries and exports.
func (d DocumentType) Label() string {
	switch d {
	case Prescription:
		return "Prescription"
	case LabResult:
		return "Lab result"
	case MedicalBill:
		return "Medical bill"
	case DischargeSummary:
		return "Discharge summary"
	case ImagingReport:
		return "Imaging report"
	case VaccinationRecord:
		return "Vaccination record"
	default:
		return "Medical document"
	}
}

// Canonicalize maps a stored or user supplied label back onto the enum.
// Unknown input yields Other and false.
func Canonicalize(input string) (DocumentType, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "_")

	synonyms := map[string]DocumentType{
		"rx":           Prescription,
		"lab":          LabResult,
		"labs":         LabResult,
		"bill":         MedicalBill,
		"invoice":      MedicalBill,
		"discharge":    DischargeSummary,
		"imaging":      ImagingReport,
		"radiology":    ImagingReport,
		"vaccination":  VaccinationRecord,
		"immunization": VaccinationRecord,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	for _, dt := range allDocumentTypes {
		if normalized == string(dt) {
			return dt, true
		}
	}

	return Other, false
}
