package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mental-wellness-be/internal/models"
	"mental-wellness-be/internal/utils"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const (
	// Returned when the classifier fails; callers never see the failure itself.
	degradedSuggestion = "I'm sorry, I couldn't fully analyze that right now. Take a slow, deep breath and be kind to yourself."

	heuristicSuggestion = "Taking short breaks, deep breathing, or a quick walk can help you reset when things feel heavy."
)

// stressKeywords are stems matched by containment inside a token, so
// "stressed" and "overwhelming" both count.
var stressKeywords = []string{
	"stress", "anxi", "depress", "overwhelm", "sad", "angry",
	"frustrat", "worri", "panic", "exhaust", "burnout", "hopeless",
	"afraid", "scared", "lonely", "cry",
}

// StressService maps a chat message to a bounded stress reading. It never
// returns an error: degraded conditions resolve to a usable default result.
type StressService interface {
	ScoreMessage(ctx context.Context, message string) models.StressAnalysis
}

// NewStressService picks the Gemini-backed scorer when an API key is
// configured, otherwise the local keyword heuristic.
func NewStressService(apiKey, model string, timeout time.Duration) StressService {
	if apiKey == "" {
		log.Println("stress scorer: no API key configured, using keyword heuristic")
		return &KeywordStressService{}
	}
	return &GeminiStressService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ========== Gemini scorer ==========

// GeminiStressService asks Gemini for a fixed-shape JSON verdict and
// validates it defensively before trusting any field.
type GeminiStressService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func (s *GeminiStressService) ScoreMessage(ctx context.Context, message string) models.StressAnalysis {
	raw, err := s.callGemini(ctx, message)
	if err != nil {
		log.Printf("stress scorer: gemini call failed, using degraded result: %v", err)
		return degradedResult()
	}

	result, err := parseStressResponse(raw)
	if err != nil {
		log.Printf("stress scorer: malformed gemini response, using degraded result: %v", err)
		return degradedResult()
	}
	return result
}

func (s *GeminiStressService) callGemini(ctx context.Context, message string) (string, error) {
	model := s.model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, model, s.apiKey)

	prompt := "You are a mental wellness assistant. Analyze the stress conveyed by the user's message. " +
		"Respond with ONLY a JSON object of the exact shape " +
		`{"stressLevel": <integer 0-100>, "confidence": <integer 0-100>, "suggestion": "<one short supportive suggestion>"}` +
		" and nothing else.\n\nMessage: " + message

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.2,
			"maxOutputTokens": 200,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
	}
	return "", errors.New("no content in Gemini response")
}

// parseStressResponse validates the model's free-text output against the
// expected JSON shape. Scores that fail numeric coercion default to 0; a
// missing suggestion fails the whole response.
func parseStressResponse(raw string) (models.StressAnalysis, error) {
	raw = stripCodeFences(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return models.StressAnalysis{}, errors.New("no JSON object in response")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return models.StressAnalysis{}, err
	}

	suggestion, _ := fields["suggestion"].(string)
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return models.StressAnalysis{}, errors.New("missing suggestion field")
	}

	return models.StressAnalysis{
		StressLevel: clampScore(coerceNumber(fields["stressLevel"])),
		Confidence:  clampScore(coerceNumber(fields["confidence"])),
		Suggestion:  suggestion,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func coerceNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// clampScore rounds half-up and clamps to [0,100]. All scores leave the
// scorer through this.
func clampScore(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

func degradedResult() models.StressAnalysis {
	return models.StressAnalysis{
		StressLevel: 0,
		Confidence:  0,
		Suggestion:  degradedSuggestion,
	}
}

// ========== Keyword heuristic ==========

// KeywordStressService scores by counting tokens that contain a stem from a
// fixed stress vocabulary. Pure: identical input yields identical output.
type KeywordStressService struct{}

func (s *KeywordStressService) ScoreMessage(_ context.Context, message string) models.StressAnalysis {
	matches := 0
	for _, token := range utils.Tokenize(message) {
		for _, keyword := range stressKeywords {
			if strings.Contains(token, keyword) {
				matches++
				break // a token counts once
			}
		}
	}

	level := matches * 25
	if level > 100 {
		level = 100
	}

	return models.StressAnalysis{
		StressLevel: level,
		Confidence:  60,
		Suggestion:  heuristicSuggestion,
	}
}
