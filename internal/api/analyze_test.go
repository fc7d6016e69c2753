package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/symptomai/symptomai-be/internal/dataset"
	"github.com/symptomai/symptomai-be/internal/engine"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := dataset.New(
		[]dataset.GreetingRule{{Trigger: "hello", Response: "Hello! How can I help you today?"}},
		[]dataset.DiseaseProfile{{
			Name:     "Flu",
			Symptoms: []string{"fever", "cough", "headache", "body aches"},
		}},
		nil,
	)
	handler := NewAnalyzeHandler(engine.NewEngine(store))

	router := gin.New()
	router.POST("/api/analyze", handler.Analyze)
	return router
}

func postAnalyze(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, AnalyzeResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp AnalyzeResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return w, resp
}

func TestAnalyzeEndpoint_Match(t *testing.T) {
	router := newTestRouter()

	w, resp := postAnalyze(t, router, `{"symptoms": "fever, cough, headache"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp.Kind != engine.KindMatch || resp.Disease != "Flu" {
		t.Errorf("response = %+v, want Flu match", resp.Result)
	}
	if resp.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestAnalyzeEndpoint_GuidanceIsStillOK(t *testing.T) {
	router := newTestRouter()

	// Too few symptoms is guidance, not an error: the status stays 200.
	w, resp := postAnalyze(t, router, `{"symptoms": "fever"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp.Kind != engine.KindGuidance {
		t.Errorf("kind = %v, want guidance", resp.Kind)
	}
	if !strings.Contains(resp.Message, "fever") {
		t.Errorf("guidance should echo the symptom, got %q", resp.Message)
	}
}

func TestAnalyzeEndpoint_Greeting(t *testing.T) {
	router := newTestRouter()

	w, resp := postAnalyze(t, router, `{"symptoms": "hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp.Kind != engine.KindGreeting {
		t.Errorf("kind = %v, want greeting", resp.Kind)
	}
	if resp.Message != "Hello! How can I help you today?" {
		t.Errorf("message = %q, want the greeting rule response", resp.Message)
	}
}

func TestAnalyzeEndpoint_MissingField(t *testing.T) {
	router := newTestRouter()

	w, _ := postAnalyze(t, router, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing symptoms field", w.Code)
	}

	w, _ = postAnalyze(t, router, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed body", w.Code)
	}
}
