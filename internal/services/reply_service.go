package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// stockReplies are used whenever the conversational model is unavailable.
var stockReplies = []string{
	"Thank you for sharing that with me. Whatever you're feeling right now is valid.",
	"I hear you. It takes courage to put your feelings into words.",
	"That sounds like a lot to carry. Remember to be gentle with yourself today.",
	"I'm here with you. One small step at a time is enough.",
	"Thanks for telling me. Your feelings matter, and so do you.",
}

// ReplyService produces a short supportive reply to a chat message. It never
// returns an error; failures fall back to a stock phrase.
type ReplyService interface {
	Reply(ctx context.Context, message string) string
}

// NewReplyService picks the Gemini-backed generator when an API key is
// configured, otherwise the stock-phrase pool.
func NewReplyService(apiKey, model string, timeout time.Duration) ReplyService {
	stock := NewStockReplyService(rand.New(rand.NewSource(time.Now().UnixNano())))
	if apiKey == "" {
		log.Println("reply generator: no API key configured, using stock replies")
		return stock
	}
	return &GeminiReplyService{
		apiKey:   apiKey,
		model:    model,
		baseURL:  geminiBaseURL,
		client:   &http.Client{Timeout: timeout},
		fallback: stock,
	}
}

// ========== Gemini replies ==========

type GeminiReplyService struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback ReplyService
}

func (s *GeminiReplyService) Reply(ctx context.Context, message string) string {
	reply, err := s.callGemini(ctx, message)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("reply generator: gemini call failed, using stock reply: %v", err)
		return s.fallback.Reply(ctx, message)
	}
	return strings.TrimSpace(reply)
}

func (s *GeminiReplyService) callGemini(ctx context.Context, message string) (string, error) {
	model := s.model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, model, s.apiKey)

	prompt := "You are a warm, supportive mental wellness companion. " +
		"Reply to the user's message in at most 2 short sentences. " +
		"Be empathetic and encouraging; do not give medical advice.\n\nMessage: " + message

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.7,
			"maxOutputTokens": 120,
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
		return parsed.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", errors.New("no content in Gemini response")
}

// ========== Stock replies ==========

// StockReplyService picks from a fixed pool of supportive phrases. The
// random source is injected so tests can force determinism; the mutex
// guards it across concurrent requests.
type StockReplyService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewStockReplyService(rng *rand.Rand) *StockReplyService {
	return &StockReplyService{rng: rng}
}

func (s *StockReplyService) Reply(_ context.Context, _ string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stockReplies[s.rng.Intn(len(stockReplies))]
}
