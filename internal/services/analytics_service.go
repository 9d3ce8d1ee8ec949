package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"mental-wellness-be/internal/models"

	"github.com/sahilm/fuzzy"
)

// Fixed stress buckets for the distribution chart, always emitted in this
// order. Boundaries are half-open; 100 lands in the last bucket.
var distributionBuckets = []struct {
	Label string
	Min   int
	Max   int // exclusive, except the last bucket
	Color string
}{
	{"Low", 0, 25, "#10B981"},
	{"Moderate", 25, 50, "#F59E0B"},
	{"High", 50, 75, "#F97316"},
	{"Very High", 75, 100, "#EF4444"},
}

type conversationReader interface {
	FindByUsername(ctx context.Context, username string) ([]models.ConversationLog, error)
}

// AnalyticsService turns a user's conversation log into the results view.
// All aggregation is in-memory; the view is recomputed fresh on every read.
type AnalyticsService struct {
	conversations conversationReader
	users         userCounter
}

func NewAnalyticsService(conversations conversationReader, users userCounter) *AnalyticsService {
	return &AnalyticsService{
		conversations: conversations,
		users:         users,
	}
}

// GetAnalytics returns either the full analytics view or, below the
// conversation threshold, a progress payload telling the user how many
// chats remain.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, username string) (*models.AnalyticsResponse, error) {
	count, err := s.users.GetConversationCount(ctx, username)
	if err != nil {
		return nil, err
	}

	if !HasEnoughData(count) {
		return &models.AnalyticsResponse{
			HasEnoughData:         false,
			ConversationCount:     count,
			RequiredConversations: RequiredConversations,
			Message:               fmt.Sprintf("%d more conversations needed", NeededMore(count)),
		}, nil
	}

	entries, err := s.conversations.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	overview := buildOverview(entries)
	trend := buildTrend(entries)
	insights := models.Insights{
		AverageStressCategory: stressCategory(overview.AvgStress),
		Improvement:           improvementFrom(trend),
	}

	return &models.AnalyticsResponse{
		HasEnoughData:      true,
		ConversationCount:  count,
		Overview:           &overview,
		StressDistribution: buildDistribution(entries),
		StressTrend:        trend,
		RecentSuggestions:  buildRecentSuggestions(entries),
		Insights:           &insights,
	}, nil
}

// GetConversationCount exposes the threshold progress for the chat page.
func (s *AnalyticsService) GetConversationCount(ctx context.Context, username string) (*models.ConversationCountResponse, error) {
	count, err := s.users.GetConversationCount(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.ConversationCountResponse{
		ConversationCount:     count,
		RequiredConversations: RequiredConversations,
		HasEnoughData:         HasEnoughData(count),
	}, nil
}

// SearchSuggestions fuzzy-matches a user's past suggestions against a query.
func (s *AnalyticsService) SearchSuggestions(ctx context.Context, username, query string, limit int) ([]models.SuggestionItem, error) {
	entries, err := s.conversations.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var pool []models.SuggestionItem
	var texts []string
	for _, e := range entries {
		if e.Suggestion == "" {
			continue
		}
		pool = append(pool, suggestionItem(e))
		texts = append(texts, e.Suggestion)
	}

	matches := fuzzy.Find(query, texts)
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	results := make([]models.SuggestionItem, 0, limit)
	for _, m := range matches[:limit] {
		results = append(results, pool[m.Index])
	}
	return results, nil
}

// ========== Pure aggregation helpers ==========

func buildOverview(entries []models.ConversationLog) models.Overview {
	if len(entries) == 0 {
		return models.Overview{}
	}

	sumStress, sumConfidence := 0, 0
	maxStress, minStress := entries[0].StressLevel, entries[0].StressLevel
	for _, e := range entries {
		sumStress += e.StressLevel
		sumConfidence += e.Confidence
		if e.StressLevel > maxStress {
			maxStress = e.StressLevel
		}
		if e.StressLevel < minStress {
			minStress = e.StressLevel
		}
	}

	n := float64(len(entries))
	return models.Overview{
		AvgStress:     round1(float64(sumStress) / n),
		MaxStress:     maxStress,
		MinStress:     minStress,
		TotalChats:    len(entries),
		AvgConfidence: round1(float64(sumConfidence) / n),
	}
}

func buildDistribution(entries []models.ConversationLog) []models.DistributionBucket {
	out := make([]models.DistributionBucket, len(distributionBuckets))
	for i, b := range distributionBuckets {
		out[i] = models.DistributionBucket{Label: b.Label, Color: b.Color}
	}

	for _, e := range entries {
		for i, b := range distributionBuckets {
			last := i == len(distributionBuckets)-1
			if e.StressLevel >= b.Min && (e.StressLevel < b.Max || (last && e.StressLevel <= b.Max)) {
				out[i].Value++
				break
			}
		}
	}
	return out
}

func buildTrend(entries []models.ConversationLog) []models.TrendPoint {
	sorted := make([]models.ConversationLog, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	trend := make([]models.TrendPoint, len(sorted))
	for i, e := range sorted {
		trend[i] = models.TrendPoint{
			ChatNumber:  i + 1,
			StressLevel: e.StressLevel,
			Date:        e.CreatedAt.Format("2006-01-02"),
		}
	}
	return trend
}

func buildRecentSuggestions(entries []models.ConversationLog) []models.SuggestionItem {
	withSuggestion := make([]models.ConversationLog, 0, len(entries))
	for _, e := range entries {
		if e.Suggestion != "" {
			withSuggestion = append(withSuggestion, e)
		}
	}

	sort.SliceStable(withSuggestion, func(i, j int) bool {
		return withSuggestion[i].CreatedAt.After(withSuggestion[j].CreatedAt)
	})
	if len(withSuggestion) > 5 {
		withSuggestion = withSuggestion[:5]
	}

	items := make([]models.SuggestionItem, len(withSuggestion))
	for i, e := range withSuggestion {
		items[i] = suggestionItem(e)
	}
	return items
}

func suggestionItem(e models.ConversationLog) models.SuggestionItem {
	return models.SuggestionItem{
		Suggestion:  e.Suggestion,
		StressLevel: e.StressLevel,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func stressCategory(avgStress float64) string {
	switch {
	case avgStress < 25:
		return "Low"
	case avgStress < 50:
		return "Moderate"
	case avgStress < 75:
		return "High"
	default:
		return "Very High"
	}
}

func improvementFrom(trend []models.TrendPoint) string {
	if len(trend) < 2 {
		return "insufficient data"
	}
	if trend[len(trend)-1].StressLevel < trend[0].StressLevel {
		return "improving"
	}
	return "needs attention"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
