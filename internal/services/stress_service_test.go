package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordScorer_CountsMatches(t *testing.T) {
	s := &KeywordStressService{}

	// Two keyword tokens: "stressed" and "overwhelmed"
	result := s.ScoreMessage(context.Background(), "I am so stressed and overwhelmed")
	assert.Equal(t, 50, result.StressLevel)
	assert.Equal(t, 60, result.Confidence)
	assert.Equal(t, heuristicSuggestion, result.Suggestion)
}

func TestKeywordScorer_IsPure(t *testing.T) {
	s := &KeywordStressService{}

	first := s.ScoreMessage(context.Background(), "feeling anxious and worried today")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.ScoreMessage(context.Background(), "feeling anxious and worried today"))
	}
}

func TestKeywordScorer_Bounds(t *testing.T) {
	s := &KeywordStressService{}

	neutral := s.ScoreMessage(context.Background(), "the weather is nice today")
	assert.Equal(t, 0, neutral.StressLevel)

	// Six matches would be 150 unclamped
	heavy := s.ScoreMessage(context.Background(), "stressed anxious depressed overwhelmed sad angry")
	assert.Equal(t, 100, heavy.StressLevel)
	assert.GreaterOrEqual(t, heavy.Confidence, 0)
	assert.LessOrEqual(t, heavy.Confidence, 100)
}

func TestKeywordScorer_FoldsAccents(t *testing.T) {
	s := &KeywordStressService{}

	result := s.ScoreMessage(context.Background(), "très stréssed")
	assert.Equal(t, 25, result.StressLevel)
}

func TestParseStressResponse(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantLevel   int
		wantConf    int
		wantSuggest string
		wantErr     bool
	}{
		{
			name:        "plain json",
			raw:         `{"stressLevel": 70, "confidence": 85, "suggestion": "Take a walk."}`,
			wantLevel:   70,
			wantConf:    85,
			wantSuggest: "Take a walk.",
		},
		{
			name:        "code fenced",
			raw:         "```json\n{\"stressLevel\": 40, \"confidence\": 90, \"suggestion\": \"Breathe.\"}\n```",
			wantLevel:   40,
			wantConf:    90,
			wantSuggest: "Breathe.",
		},
		{
			name:        "surrounding prose",
			raw:         `Here is my analysis: {"stressLevel": 30, "confidence": 80, "suggestion": "Rest."} Hope that helps!`,
			wantLevel:   30,
			wantConf:    80,
			wantSuggest: "Rest.",
		},
		{
			name:        "numeric strings",
			raw:         `{"stressLevel": "55", "confidence": "60", "suggestion": "Stretch."}`,
			wantLevel:   55,
			wantConf:    60,
			wantSuggest: "Stretch.",
		},
		{
			name:        "unparseable scores default to zero",
			raw:         `{"stressLevel": "very high", "confidence": null, "suggestion": "Relax."}`,
			wantLevel:   0,
			wantConf:    0,
			wantSuggest: "Relax.",
		},
		{
			name:        "scores clamped to range",
			raw:         `{"stressLevel": 250, "confidence": -10, "suggestion": "Pause."}`,
			wantLevel:   100,
			wantConf:    0,
			wantSuggest: "Pause.",
		},
		{
			name:        "fractional scores round half up",
			raw:         `{"stressLevel": 49.5, "confidence": 59.4, "suggestion": "Walk."}`,
			wantLevel:   50,
			wantConf:    59,
			wantSuggest: "Walk.",
		},
		{
			name:    "missing suggestion",
			raw:     `{"stressLevel": 50, "confidence": 60}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I'd rate this about a 70 out of 100.",
			wantErr: true,
		},
		{
			name:    "broken json",
			raw:     `{"stressLevel": 50,`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseStressResponse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, result.StressLevel)
			assert.Equal(t, tt.wantConf, result.Confidence)
			assert.Equal(t, tt.wantSuggest, result.Suggestion)
		})
	}
}

func geminiStub(t *testing.T, handler http.HandlerFunc) *GeminiStressService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GeminiStressService{
		apiKey:  "test-key",
		model:   "gemini-1.5-flash",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 500 * time.Millisecond},
	}
}

func geminiBody(text string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(b)
}

func TestGeminiScorer_ParsesWellFormedResponse(t *testing.T) {
	s := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiBody(`{"stressLevel": 65, "confidence": 88, "suggestion": "Step outside for a moment."}`)))
	})

	result := s.ScoreMessage(context.Background(), "work is piling up")
	assert.Equal(t, 65, result.StressLevel)
	assert.Equal(t, 88, result.Confidence)
	assert.Equal(t, "Step outside for a moment.", result.Suggestion)
}

func TestGeminiScorer_DegradesOnServerError(t *testing.T) {
	s := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	result := s.ScoreMessage(context.Background(), "anything")
	assert.Equal(t, 0, result.StressLevel)
	assert.Equal(t, 0, result.Confidence)
	assert.Equal(t, degradedSuggestion, result.Suggestion)
}

func TestGeminiScorer_DegradesOnMalformedContent(t *testing.T) {
	s := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiBody("I think that message sounds quite stressful.")))
	})

	result := s.ScoreMessage(context.Background(), "anything")
	assert.Equal(t, degradedSuggestion, result.Suggestion)
	assert.Equal(t, 0, result.StressLevel)
}

func TestGeminiScorer_DegradesOnTimeout(t *testing.T) {
	s := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})

	result := s.ScoreMessage(context.Background(), "anything")
	assert.Equal(t, degradedSuggestion, result.Suggestion)
}

func TestGeminiScorer_DegradesOnEmptyCandidates(t *testing.T) {
	s := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	})

	result := s.ScoreMessage(context.Background(), "anything")
	assert.Equal(t, degradedSuggestion, result.Suggestion)
}

func TestNewStressService_PicksImplementation(t *testing.T) {
	assert.IsType(t, &KeywordStressService{}, NewStressService("", "", time.Second))
	assert.IsType(t, &GeminiStressService{}, NewStressService("key", "", time.Second))
}
