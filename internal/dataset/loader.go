package dataset

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Source file names expected under the data directory. Column layouts
// match the original CSV exports: first column is the key, remaining
// columns are values.
const (
	greetingsFile    = "greetings.csv"
	symptomsFile     = "DiseaseAndSymptoms.csv"
	severityFile     = "Symptom-severity.csv"
	descriptionsFile = "symptom_Description.csv"
	treatmentsFile   = "disease_treatments.csv"
	precautionsFile  = "Disease precaution.csv"
)

// Load builds a Store from the CSV files in dir. Every table is optional:
// a missing or unreadable file logs a warning and leaves that table empty,
// and malformed rows are skipped. The returned Store is always usable; with
// zero diseases the engine simply never finds a match.
func Load(dir string) *Store {
	s := &Store{}

	s.greetings = loadGreetings(filepath.Join(dir, greetingsFile))

	names, symptomsByDisease := loadDiseaseSymptoms(filepath.Join(dir, symptomsFile))
	s.weights = loadSeverityWeights(filepath.Join(dir, severityFile))
	descriptions := loadDescriptions(filepath.Join(dir, descriptionsFile))
	treatments := loadTreatments(filepath.Join(dir, treatmentsFile))
	precautions := loadPrecautions(filepath.Join(dir, precautionsFile))

	// Merge the per-table maps into one profile per disease. Attribute
	// tables are keyed by lowercased disease name to survive casing
	// differences between exports.
	for _, name := range names {
		key := strings.ToLower(name)
		profile := DiseaseProfile{
			Name:        name,
			Symptoms:    symptomsByDisease[name],
			Description: descriptions[key],
			Precautions: precautions[key],
		}
		if t, ok := treatments[key]; ok {
			profile.Medications = t.medications
			profile.Procedures = t.procedures
			profile.Specialist = t.specialist
		}
		if len(profile.Symptoms) == 0 {
			log.Printf("Warning: disease %q has no symptoms, skipping", name)
			continue
		}
		s.diseases = append(s.diseases, profile)
	}

	log.Printf("Dataset loaded: %d diseases, %d greetings, %d symptom weights",
		len(s.diseases), len(s.greetings), len(s.weights))

	return s
}

type treatment struct {
	medications string
	procedures  string
	specialist  string
}

// readRows reads all data rows of a CSV file, skipping the header line.
// Returns nil if the file is missing or unreadable.
func readRows(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: failed to open %s: %v", path, err)
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the malformed row and keep going.
			continue
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, record)
	}
	return rows
}

func loadGreetings(path string) []GreetingRule {
	var rules []GreetingRule
	for _, row := range readRows(path) {
		if len(row) < 2 {
			continue
		}
		trigger := strings.ToLower(strings.TrimSpace(row[0]))
		response := strings.TrimSpace(row[1])
		if trigger == "" || response == "" {
			continue
		}
		rules = append(rules, GreetingRule{Trigger: trigger, Response: response})
	}
	return rules
}

// loadDiseaseSymptoms returns disease names in first-seen row order plus
// each disease's deduplicated, normalized symptom set. Repeated rows for
// the same disease accumulate into one set.
func loadDiseaseSymptoms(path string) ([]string, map[string][]string) {
	var names []string
	sets := make(map[string]map[string]bool)
	symptoms := make(map[string][]string)

	for _, row := range readRows(path) {
		if len(row) < 2 {
			continue
		}
		disease := strings.TrimSpace(row[0])
		if disease == "" {
			continue
		}
		if sets[disease] == nil {
			sets[disease] = make(map[string]bool)
			names = append(names, disease)
		}
		for _, cell := range row[1:] {
			symptom := NormalizeSymptom(strings.TrimSpace(cell))
			if symptom == "" || sets[disease][symptom] {
				continue
			}
			sets[disease][symptom] = true
			symptoms[disease] = append(symptoms[disease], symptom)
		}
	}
	return names, symptoms
}

func loadSeverityWeights(path string) map[string]int {
	weights := make(map[string]int)
	for _, row := range readRows(path) {
		if len(row) < 2 {
			continue
		}
		symptom := NormalizeSymptom(strings.TrimSpace(row[0]))
		if symptom == "" {
			continue
		}
		weight, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || weight <= 0 {
			weight = 1
		}
		weights[symptom] = weight
	}
	return weights
}

func loadDescriptions(path string) map[string]string {
	descriptions := make(map[string]string)
	for _, row := range readRows(path) {
		if len(row) < 2 {
			continue
		}
		disease := strings.ToLower(strings.TrimSpace(row[0]))
		description := strings.TrimSpace(row[1])
		if disease == "" || description == "" {
			continue
		}
		descriptions[disease] = description
	}
	return descriptions
}

func loadTreatments(path string) map[string]treatment {
	treatments := make(map[string]treatment)
	for _, row := range readRows(path) {
		if len(row) < 4 {
			continue
		}
		disease := strings.ToLower(strings.TrimSpace(row[0]))
		if disease == "" {
			continue
		}
		treatments[disease] = treatment{
			medications: strings.TrimSpace(row[1]),
			procedures:  strings.TrimSpace(row[2]),
			specialist:  strings.TrimSpace(row[3]),
		}
	}
	return treatments
}

func loadPrecautions(path string) map[string][]string {
	precautions := make(map[string][]string)
	for _, row := range readRows(path) {
		if len(row) < 2 {
			continue
		}
		disease := strings.ToLower(strings.TrimSpace(row[0]))
		if disease == "" {
			continue
		}
		for _, cell := range row[1:] {
			p := strings.TrimSpace(cell)
			if p != "" {
				precautions[disease] = append(precautions[disease], p)
			}
		}
	}
	return precautions
}
