package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_FullDataset(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, greetingsFile, "greeting,response\nhello,Hello! How can I help?\nhi,Hi there!\n")
	writeFile(t, dir, symptomsFile,
		"Disease,Symptom_1,Symptom_2,Symptom_3\n"+
			"Flu,fever,dry_cough,headache\n"+
			"Flu,Body_Aches,fever,\n"+ // repeated disease rows union their symptoms
			"Common Cold,runny nose,sneezing,\n")
	writeFile(t, dir, severityFile, "Symptom,weight\nfever,4\ndry_cough,2\nbad row,\nheadache,notanumber\n")
	writeFile(t, dir, descriptionsFile, "Disease,Description\nFlu,\"Influenza, a contagious respiratory illness.\"\n")
	writeFile(t, dir, treatmentsFile, "Disease,Medications,Procedures,Specialist\nFlu,Rest and fluids,Monitor temperature,General Practitioner\n")
	writeFile(t, dir, precautionsFile, "Disease,Precaution_1,Precaution_2\nFlu,wash hands,cover coughs\n")

	s := Load(dir)

	if len(s.Greetings()) != 2 {
		t.Fatalf("greetings = %d, want 2", len(s.Greetings()))
	}
	if s.Greetings()[0].Trigger != "hello" {
		t.Errorf("first greeting trigger = %q, want hello", s.Greetings()[0].Trigger)
	}

	diseases := s.Diseases()
	if len(diseases) != 2 {
		t.Fatalf("diseases = %d, want 2", len(diseases))
	}

	flu := diseases[0]
	if flu.Name != "Flu" {
		t.Fatalf("first disease = %q, want Flu (load order)", flu.Name)
	}

	// Two Flu rows merge into one deduplicated set with normalized names.
	wantSymptoms := []string{"fever", "dry cough", "headache", "body aches"}
	if len(flu.Symptoms) != len(wantSymptoms) {
		t.Fatalf("flu symptoms = %v, want %v", flu.Symptoms, wantSymptoms)
	}
	for i, want := range wantSymptoms {
		if flu.Symptoms[i] != want {
			t.Errorf("flu symptom[%d] = %q, want %q", i, flu.Symptoms[i], want)
		}
	}

	if flu.Description != "Influenza, a contagious respiratory illness." {
		t.Errorf("flu description = %q", flu.Description)
	}
	if flu.Medications != "Rest and fluids" || flu.Specialist != "General Practitioner" {
		t.Errorf("flu treatment not merged: %+v", flu)
	}
	if len(flu.Precautions) != 2 || flu.Precautions[0] != "wash hands" {
		t.Errorf("flu precautions = %v", flu.Precautions)
	}

	if got := s.SymptomWeight("fever"); got != 4 {
		t.Errorf("weight(fever) = %d, want 4", got)
	}
	if got := s.SymptomWeight("dry cough"); got != 2 {
		t.Errorf("weight(dry cough) = %d, want 2 (underscore normalized)", got)
	}
	// Unparsable weights default to 1.
	if got := s.SymptomWeight("headache"); got != 1 {
		t.Errorf("weight(headache) = %d, want 1", got)
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	// An empty directory must still produce a working store.
	s := Load(t.TempDir())

	if len(s.Diseases()) != 0 || len(s.Greetings()) != 0 {
		t.Errorf("empty dir should give empty store, got %d diseases, %d greetings",
			len(s.Diseases()), len(s.Greetings()))
	}
	if got := s.SymptomWeight("fever"); got != 1 {
		t.Errorf("weight lookup on empty store = %d, want 1", got)
	}
}

func TestLoad_MalformedRows(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, greetingsFile, "greeting,response\n,no trigger\nno reply,\nhey,Hey!\n")
	writeFile(t, dir, symptomsFile,
		"Disease,Symptom_1\n"+
			",orphan symptom\n"+
			"onlydisease\n"+
			"Malaria,fever\n")

	s := Load(dir)

	if len(s.Greetings()) != 1 || s.Greetings()[0].Trigger != "hey" {
		t.Errorf("greetings = %+v, want only the hey rule", s.Greetings())
	}
	if len(s.Diseases()) != 1 || s.Diseases()[0].Name != "Malaria" {
		t.Errorf("diseases = %+v, want only Malaria", s.Diseases())
	}
}

func TestLoad_DiseaseWithoutSymptomsDropped(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, symptomsFile, "Disease,Symptom_1\nGhost,\nMalaria,fever\n")

	s := Load(dir)
	if len(s.Diseases()) != 1 || s.Diseases()[0].Name != "Malaria" {
		t.Errorf("diseases = %+v, want Ghost dropped", s.Diseases())
	}
}
