package extract

import (
	"testing"

	"github.com/joseph-ayodele/medocs/internal/core/ocr"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

func TestBuildRecord(t *testing.T) {
	text := ocr.Normalize(`Patient: Jane Doe
DOB 04/02/1980
Dr. Emily Carter  Visit 03/15/2024
Rx: Lisinopril 10 mg once daily in the morning. Metformin 500 mg, twice daily with meals; Aspirin as needed.
Dr. Second Person`)

	rec := BuildRecord(text)
	if got := entity.StrOrEmpty(rec.PatientName); got != "Jane Doe" {
		t.Errorf("patient = %q", got)
	}
	if got := entity.StrOrEmpty(rec.ProviderName); got != "Emily Carter" {
		t.Errorf("provider = %q", got)
	}
	if got := entity.StrOrEmpty(rec.Date); got != "04/02/1980" {
		t.Errorf("date = %q (first date wins)", got)
	}

	want := []entity.MedicationLine{
		{Name: "Lisinopril", Dosage: "10 mg", Instructions: "once daily in the morning"},
		{Name: "Metformin", Dosage: "500 mg", Instructions: "twice daily with meals"},
		{Name: "Aspirin", Instructions: "as needed"},
	}
	if len(rec.Medications) != len(want) {
		t.Fatalf("medications = %+v", rec.Medications)
	}
	for i := range want {
		if rec.Medications[i] != want[i] {
			t.Errorf("medication %d = %+v, want %+v", i, rec.Medications[i], want[i])
		}
	}
}

func TestBuildRecordMedicationsInOneSentence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []entity.MedicationLine
	}{
		{
			name: "joined by with",
			text: "Lisinopril 10 mg daily with Metformin 500 mg twice daily.",
			want: []entity.MedicationLine{
				{Name: "Lisinopril", Dosage: "10 mg", Instructions: "daily"},
				{Name: "Metformin", Dosage: "500 mg", Instructions: "twice daily"},
			},
		},
		{
			name: "comma list",
			text: "Continue Atorvastatin 20 mg, Aspirin 81 mg and Omeprazole before breakfast; recheck in 3 months",
			want: []entity.MedicationLine{
				{Name: "Atorvastatin", Dosage: "20 mg"},
				{Name: "Aspirin", Dosage: "81 mg"},
				{Name: "Omeprazole", Instructions: "before breakfast"},
			},
		},
		{
			name: "back to back",
			text: "Metformin Insulin at night",
			want: []entity.MedicationLine{
				{Name: "Metformin"},
				{Name: "Insulin", Instructions: "at night"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRecord(tt.text).Medications
			if len(got) != len(tt.want) {
				t.Fatalf("medications = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("medication %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildRecordPartial(t *testing.T) {
	rec := BuildRecord("Invoice total due: 120.00")
	if rec.PatientName != nil || rec.ProviderName != nil || rec.Date != nil {
		t.Fatalf("unexpected identity fields: %+v", rec)
	}
	if rec.Medications == nil || len(rec.Medications) != 0 {
		t.Fatalf("medications = %#v, want empty", rec.Medications)
	}

	empty := BuildRecord("")
	if empty.Medications == nil {
		t.Fatal("medications must be an empty list, not nil")
	}
}

func TestFacility(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Discharged from St. Mary Hospital on 02/01/2024", "St. Mary Hospital"},
		{"Results: Quest Diagnostics Laboratory, fasting panel", "Quest Diagnostics Laboratory"},
		{"Riverside Family Clinic. Dr. Lee", "Riverside Family Clinic"},
		{"no facility mentioned here", ""},
	}
	for _, c := range cases {
		if got := entity.StrOrEmpty(Facility(c.text)); got != c.want {
			t.Errorf("Facility(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
