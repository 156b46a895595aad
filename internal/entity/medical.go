package entity

import "github.com/joseph-ayodele/medocs/constants"

// RawOCRResult is what an OCR engine hands the pipeline.
type RawOCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine,omitempty"`
}

// ClampConfidence forces c into [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case c != c || c < 0: // NaN or negative
		return 0
	case c > 1:
		return 1
	}
	return c
}

type EntityKind string

const (
	KindMedication EntityKind = "medication"
	KindLabValue   EntityKind = "lab_value"
	KindProvider   EntityKind = "provider"
	KindDate       EntityKind = "date"
)

// Entity is a typed fact found in normalized text. Kind selects which of the
// variant fields are meaningful:
//
//	medication: Name, Dosage (nil when absent)
//	lab_value:  Test, Value, Unit
//	provider:   Name
//	date:       Value
type Entity struct {
	Kind       EntityKind `json:"type"`
	Name       string     `json:"name,omitempty"`
	Dosage     *string    `json:"dosage,omitempty"`
	Test       string     `json:"test,omitempty"`
	Value      string     `json:"value,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Confidence float64    `json:"confidence"`
	Context    string     `json:"context"`
}

func NewMedication(name string, dosage *string, confidence float64, context string) Entity {
	return Entity{Kind: KindMedication, Name: name, Dosage: dosage, Confidence: confidence, Context: context}
}

func NewLabValue(test, value, unit string, confidence float64, context string) Entity {
	return Entity{Kind: KindLabValue, Test: test, Value: value, Unit: unit, Confidence: confidence, Context: context}
}

func NewProvider(name string, confidence float64, context string) Entity {
	return Entity{Kind: KindProvider, Name: name, Confidence: confidence, Context: context}
}

func NewDateMention(value string, confidence float64, context string) Entity {
	return Entity{Kind: KindDate, Value: value, Confidence: confidence, Context: context}
}

// MedicationLine is one medication row of a StructuredRecord.
type MedicationLine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// StructuredRecord is a best-effort partial extraction; absent fields are nil.
type StructuredRecord struct {
	PatientName  *string          `json:"patientName,omitempty"`
	ProviderName *string          `json:"providerName,omitempty"`
	Date         *string          `json:"date,omitempty"`
	Medications  []MedicationLine `json:"medications"`
}

// ProcessedResult combines every pipeline stage for one document.
type ProcessedResult struct {
	Text         string                 `json:"text"`
	Confidence   float64                `json:"confidence"`
	Entities     []Entity               `json:"entities"`
	DocumentType constants.DocumentType `json:"documentType"`
	// Keyword of the classification rule that fired; empty for other.
	ClassifiedBy string                 `json:"classifiedBy,omitempty"`
	Record       StructuredRecord       `json:"structuredData"`
	Suggestions  []string               `json:"suggestions"`
}
