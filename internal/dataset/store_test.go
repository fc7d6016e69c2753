package dataset

import "testing"

func TestNormalizeSymptom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "FEVER", "fever"},
		{"underscores to spaces", "body_aches", "body aches"},
		{"collapse runs", "sore___throat", "sore throat"},
		{"mixed separators", " high _ fever ", "high fever"},
		{"already normalized", "runny nose", "runny nose"},
		{"empty", "", ""},
		{"only separators", " _ _ ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSymptom(tt.input); got != tt.want {
				t.Errorf("NormalizeSymptom(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSymptomWeight_Default(t *testing.T) {
	s := New(nil, nil, map[string]int{"fever": 3})

	if got := s.SymptomWeight("fever"); got != 3 {
		t.Errorf("SymptomWeight(fever) = %d, want 3", got)
	}
	if got := s.SymptomWeight("unknown symptom"); got != 1 {
		t.Errorf("SymptomWeight(unknown) = %d, want default 1", got)
	}
}

func TestSymptomWeight_NilMap(t *testing.T) {
	s := New(nil, nil, nil)
	if got := s.SymptomWeight("fever"); got != 1 {
		t.Errorf("SymptomWeight on empty store = %d, want 1", got)
	}
}

func TestDiseaseProfile_Fallbacks(t *testing.T) {
	p := &DiseaseProfile{Name: "Dengue"}

	if got := p.DescriptionOrDefault(); got != "Dengue is a medical condition that requires proper evaluation and treatment." {
		t.Errorf("DescriptionOrDefault() = %q", got)
	}
	if got := p.MedicationsOrDefault(); got != DefaultMedications {
		t.Errorf("MedicationsOrDefault() = %q", got)
	}
	if got := p.ProceduresOrDefault(); got != DefaultProcedures {
		t.Errorf("ProceduresOrDefault() = %q", got)
	}
	if got := p.SpecialistOrDefault(); got != DefaultSpecialist {
		t.Errorf("SpecialistOrDefault() = %q", got)
	}
	if got := p.PrecautionsOrDefault(); got != DefaultPrecautions {
		t.Errorf("PrecautionsOrDefault() = %q", got)
	}
}

func TestDiseaseProfile_RecordedValues(t *testing.T) {
	p := &DiseaseProfile{
		Name:        "Flu",
		Description: "A respiratory illness.",
		Medications: "Rest and fluids",
		Procedures:  "Monitor temperature",
		Specialist:  "General Practitioner",
		Precautions: []string{"wash hands", "stay home"},
	}

	if got := p.DescriptionOrDefault(); got != "A respiratory illness." {
		t.Errorf("DescriptionOrDefault() = %q", got)
	}
	if got := p.PrecautionsOrDefault(); got != "wash hands, stay home" {
		t.Errorf("PrecautionsOrDefault() = %q, want comma-joined list", got)
	}
}
