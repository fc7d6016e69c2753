package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/symptomai/symptomai-be/internal/dataset"
)

// ResultKind tells the caller which path produced the response.
type ResultKind string

const (
	KindGreeting ResultKind = "greeting"
	KindGuidance ResultKind = "guidance"
	KindNoMatch  ResultKind = "no_match"
	KindMatch    ResultKind = "match"
)

// Result is the outcome of analyzing one input. Every path produces a
// Message; Disease, Confidence and MatchCount are populated only for
// KindMatch.
type Result struct {
	Kind       ResultKind `json:"kind"`
	Message    string     `json:"message"`
	Disease    string     `json:"disease,omitempty"`
	Confidence int        `json:"confidence,omitempty"`
	MatchCount int        `json:"match_count,omitempty"`
}

// Engine matches free-text symptom descriptions against the reference
// dataset. It holds no per-call state: Analyze reads only the immutable
// store, so one Engine serves all callers concurrently.
type Engine struct {
	store *dataset.Store
}

// similarityThreshold is the cutoff below which a symptom-to-symptom
// pairing is ignored during scoring.
const similarityThreshold = 0.6

// NewEngine creates an engine over the given reference data store.
func NewEngine(store *dataset.Store) *Engine {
	return &Engine{store: store}
}

// Analyze runs the full pipeline on one raw input: greeting detection,
// symptom parsing, minimum-count validation, per-disease scoring and
// response composition. Malformed input never produces an error; guidance
// paths come back as normal results.
func (e *Engine) Analyze(rawInput string) Result {
	input := strings.ToLower(strings.TrimSpace(rawInput))

	if response, ok := e.matchGreeting(input); ok {
		return Result{Kind: KindGreeting, Message: response}
	}

	symptoms := parseSymptoms(input)

	if len(symptoms) == 0 {
		return Result{
			Kind: KindGuidance,
			Message: "Please provide at least 3 symptoms separated by commas for accurate analysis.\n\n" +
				"Example: fever, cough, headache\n\n" +
				"This helps me provide more precise health insights and recommendations.",
		}
	}

	if len(symptoms) < 3 {
		plural := "s"
		if len(symptoms) == 1 {
			plural = ""
		}
		return Result{
			Kind: KindGuidance,
			Message: fmt.Sprintf("You provided %d symptom%s: %s\n\n"+
				"For accurate analysis, please provide at least 3 symptoms separated by commas.\n\n"+
				"Example: fever, cough, headache, body aches",
				len(symptoms), plural, strings.Join(symptoms, ", ")),
		}
	}

	best, score, matchCount := e.bestMatch(symptoms)
	if best == nil {
		return Result{
			Kind: KindNoMatch,
			Message: "I couldn't find a specific match for your symptoms. " +
				"Please try describing your symptoms more specifically or consult " +
				"with a healthcare professional for proper evaluation.",
		}
	}

	return e.compose(best, score, matchCount, symptoms)
}

// matchGreeting checks the input against every greeting rule. A rule fires
// on exact equality, on the trigger at the start or end of the input
// bounded by space, comma or period, or (for multi-word triggers) on plain
// substring containment. The first firing rule wins.
func (e *Engine) matchGreeting(input string) (string, bool) {
	for _, rule := range e.store.Greetings() {
		trigger := rule.Trigger

		if input == trigger {
			return rule.Response, true
		}
		if strings.HasPrefix(input, trigger+" ") ||
			strings.HasPrefix(input, trigger+",") ||
			strings.HasPrefix(input, trigger+".") {
			return rule.Response, true
		}
		if strings.HasSuffix(input, " "+trigger) ||
			strings.HasSuffix(input, ","+trigger) ||
			strings.HasSuffix(input, "."+trigger) {
			return rule.Response, true
		}
		if strings.Contains(trigger, " ") && strings.Contains(input, trigger) {
			return rule.Response, true
		}
	}
	return "", false
}

// parseSymptoms splits the normalized input on commas and semicolons and
// canonicalizes each piece the same way stored symptoms are.
func parseSymptoms(input string) []string {
	pieces := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var symptoms []string
	for _, piece := range pieces {
		s := dataset.NormalizeSymptom(strings.TrimSpace(piece))
		if s != "" {
			symptoms = append(symptoms, s)
		}
	}
	return symptoms
}

// bestMatch scores every disease and returns the strictly highest scorer.
// Ties keep the earlier disease in load order. Returns nil when nothing
// scores above zero.
func (e *Engine) bestMatch(symptoms []string) (*dataset.DiseaseProfile, float64, int) {
	diseases := e.store.Diseases()

	var best *dataset.DiseaseProfile
	maxScore := 0.0
	bestCount := 0

	for i := range diseases {
		score, matchCount := e.scoreDisease(symptoms, &diseases[i])
		if score > maxScore {
			maxScore = score
			best = &diseases[i]
			bestCount = matchCount
		}
	}
	return best, maxScore, bestCount
}

// scoreDisease sums, over the input symptoms, the best weighted similarity
// against the disease's symptom set. Pairings at or below the threshold
// contribute nothing. A multi-symptom bonus of 20% per additional matched
// input symptom is applied at the end.
func (e *Engine) scoreDisease(symptoms []string, disease *dataset.DiseaseProfile) (float64, int) {
	total := 0.0
	matchCount := 0

	for _, input := range symptoms {
		best := 0.0
		for _, ds := range disease.Symptoms {
			sim := Similarity(input, ds)
			if sim <= similarityThreshold {
				continue
			}
			weighted := sim * float64(e.store.SymptomWeight(ds))
			if weighted > best {
				best = weighted
			}
		}
		if best > 0 {
			total += best
			matchCount++
		}
	}

	if matchCount > 1 {
		total *= 1 + float64(matchCount-1)*0.2
	}
	return total, matchCount
}

// compose formats the final analysis message for a matched disease,
// including the confidence percentage and a disclaimer echoing the parsed
// symptoms.
func (e *Engine) compose(disease *dataset.DiseaseProfile, score float64, matchCount int, symptoms []string) Result {
	confidence := int(math.Round(score / 10 * 100))
	if confidence > 95 {
		confidence = 95
	}

	message := fmt.Sprintf(`✅ Possible Condition: %s (%d%% match)
📄 Description: %s
💊 Medications: %s
🛠️ Procedures: %s
🧼 Precautions: %s
👨‍⚕️ Specialist to Consult: %s

⚠️ Important: This analysis is based on the symptoms you provided (%s). Please consult with a qualified healthcare professional for proper diagnosis and treatment.`,
		disease.Name, confidence,
		disease.DescriptionOrDefault(),
		disease.MedicationsOrDefault(),
		disease.ProceduresOrDefault(),
		disease.PrecautionsOrDefault(),
		disease.SpecialistOrDefault(),
		strings.Join(symptoms, ", "))

	return Result{
		Kind:       KindMatch,
		Message:    message,
		Disease:    disease.Name,
		Confidence: confidence,
		MatchCount: matchCount,
	}
}
