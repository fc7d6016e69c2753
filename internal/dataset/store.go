package dataset

import (
	"fmt"
	"strings"
)

// Fallback strings returned when a disease has no recorded treatment data.
const (
	DefaultMedications = "Consult healthcare provider for appropriate medications"
	DefaultProcedures  = "Follow medical advice and regular monitoring"
	DefaultSpecialist  = "General Practitioner or relevant specialist"
	DefaultPrecautions = "Follow general health precautions and consult healthcare provider"
)

// GreetingRule maps a trigger phrase to a canned reply. Rules are checked
// before any symptom analysis; the first rule that fires wins.
type GreetingRule struct {
	Trigger  string
	Response string
}

// DiseaseProfile is the merged per-disease record built from the source
// tables at load time. Symptoms are normalized and deduplicated.
type DiseaseProfile struct {
	Name        string
	Symptoms    []string
	Description string
	Medications string
	Procedures  string
	Specialist  string
	Precautions []string
}

// Store holds the reference medical data. It is populated once at startup
// and read-only afterwards, so it is safe for concurrent use without locks.
type Store struct {
	greetings []GreetingRule
	diseases  []DiseaseProfile
	weights   map[string]int
}

// New builds a Store directly from already-normalized values. Load is the
// usual entry point; New exists for callers assembling data in memory.
func New(greetings []GreetingRule, diseases []DiseaseProfile, weights map[string]int) *Store {
	return &Store{greetings: greetings, diseases: diseases, weights: weights}
}

// Greetings returns the greeting rules in load order.
func (s *Store) Greetings() []GreetingRule {
	return s.greetings
}

// Diseases returns disease profiles in load order. Callers iterating for
// scoring rely on this order being stable: ties resolve to the
// first-loaded disease.
func (s *Store) Diseases() []DiseaseProfile {
	return s.diseases
}

// SymptomWeight returns the severity weight for a normalized symptom,
// defaulting to 1 when the symptom has no recorded severity.
func (s *Store) SymptomWeight(symptom string) int {
	if w, ok := s.weights[symptom]; ok {
		return w
	}
	return 1
}

// Description returns the disease description, falling back to a templated
// sentence when none is recorded.
func (p *DiseaseProfile) DescriptionOrDefault() string {
	if p.Description != "" {
		return p.Description
	}
	return fmt.Sprintf("%s is a medical condition that requires proper evaluation and treatment.", p.Name)
}

// MedicationsOrDefault returns the recorded medications or a safe default.
func (p *DiseaseProfile) MedicationsOrDefault() string {
	if p.Medications != "" {
		return p.Medications
	}
	return DefaultMedications
}

// ProceduresOrDefault returns the recorded procedures or a safe default.
func (p *DiseaseProfile) ProceduresOrDefault() string {
	if p.Procedures != "" {
		return p.Procedures
	}
	return DefaultProcedures
}

// SpecialistOrDefault returns the recorded specialist or a safe default.
func (p *DiseaseProfile) SpecialistOrDefault() string {
	if p.Specialist != "" {
		return p.Specialist
	}
	return DefaultSpecialist
}

// PrecautionsOrDefault returns the precaution list joined with commas, or a
// safe default when the list is empty.
func (p *DiseaseProfile) PrecautionsOrDefault() string {
	if len(p.Precautions) > 0 {
		return strings.Join(p.Precautions, ", ")
	}
	return DefaultPrecautions
}

// NormalizeSymptom canonicalizes a symptom phrase: lowercase, underscores
// and whitespace runs collapsed to a single space, trimmed. Stored symptoms
// and user input go through the same normalization so comparisons line up.
func NormalizeSymptom(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == '_' || r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
