package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mental-wellness-be/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConversationReader struct {
	entries []models.ConversationLog
	err     error
}

func (f *fakeConversationReader) FindByUsername(_ context.Context, _ string) ([]models.ConversationLog, error) {
	return f.entries, f.err
}

type fakeUserCounter struct {
	count      int
	countErr   error
	incErr     error
	increments int
}

func (f *fakeUserCounter) IncrementConversationCount(_ context.Context, _ string, _ time.Time) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments++
	f.count++
	return nil
}

func (f *fakeUserCounter) GetConversationCount(_ context.Context, _ string) (int, error) {
	return f.count, f.countErr
}

func entriesWithLevels(levels ...int) []models.ConversationLog {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	entries := make([]models.ConversationLog, len(levels))
	for i, level := range levels {
		entries[i] = models.ConversationLog{
			Username:    "alice",
			StressLevel: level,
			Confidence:  60,
			Suggestion:  fmt.Sprintf("suggestion %d", i+1),
			CreatedAt:   base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return entries
}

func TestGetAnalytics_NotEnoughData(t *testing.T) {
	svc := NewAnalyticsService(&fakeConversationReader{}, &fakeUserCounter{count: 1})

	view, err := svc.GetAnalytics(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, view.HasEnoughData)
	assert.Equal(t, 1, view.ConversationCount)
	assert.Equal(t, 3, view.RequiredConversations)
	assert.Equal(t, "2 more conversations needed", view.Message)
	assert.Nil(t, view.Overview)
	assert.Nil(t, view.Insights)
}

func TestGetAnalytics_FullView(t *testing.T) {
	entries := entriesWithLevels(20, 60, 90)
	svc := NewAnalyticsService(&fakeConversationReader{entries: entries}, &fakeUserCounter{count: 3})

	view, err := svc.GetAnalytics(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, view.HasEnoughData)

	require.NotNil(t, view.Overview)
	assert.InDelta(t, 56.7, view.Overview.AvgStress, 0.01)
	assert.Equal(t, 90, view.Overview.MaxStress)
	assert.Equal(t, 20, view.Overview.MinStress)
	assert.Equal(t, 3, view.Overview.TotalChats)
	assert.InDelta(t, 60.0, view.Overview.AvgConfidence, 0.01)

	require.Len(t, view.StressDistribution, 4)
	assert.Equal(t, "Low", view.StressDistribution[0].Label)
	assert.Equal(t, 1, view.StressDistribution[0].Value)
	assert.Equal(t, "Moderate", view.StressDistribution[1].Label)
	assert.Equal(t, 0, view.StressDistribution[1].Value)
	assert.Equal(t, "High", view.StressDistribution[2].Label)
	assert.Equal(t, 1, view.StressDistribution[2].Value)
	assert.Equal(t, "Very High", view.StressDistribution[3].Label)
	assert.Equal(t, 1, view.StressDistribution[3].Value)

	require.Len(t, view.StressTrend, 3)
	assert.Equal(t, models.TrendPoint{ChatNumber: 1, StressLevel: 20, Date: "2026-08-01"}, view.StressTrend[0])
	assert.Equal(t, models.TrendPoint{ChatNumber: 2, StressLevel: 60, Date: "2026-08-02"}, view.StressTrend[1])
	assert.Equal(t, models.TrendPoint{ChatNumber: 3, StressLevel: 90, Date: "2026-08-03"}, view.StressTrend[2])

	require.NotNil(t, view.Insights)
	assert.Equal(t, "High", view.Insights.AverageStressCategory)
	assert.Equal(t, "needs attention", view.Insights.Improvement)
}

func TestGetAnalytics_Idempotent(t *testing.T) {
	entries := entriesWithLevels(20, 60, 90)
	svc := NewAnalyticsService(&fakeConversationReader{entries: entries}, &fakeUserCounter{count: 3})

	first, err := svc.GetAnalytics(context.Background(), "alice")
	require.NoError(t, err)
	second, err := svc.GetAnalytics(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAnalytics_PropagatesStoreError(t *testing.T) {
	svc := NewAnalyticsService(&fakeConversationReader{}, &fakeUserCounter{countErr: errors.New("down")})

	_, err := svc.GetAnalytics(context.Background(), "alice")
	assert.Error(t, err)
}

func TestBuildDistribution_BoundaryRule(t *testing.T) {
	entries := entriesWithLevels(0, 24, 25, 49, 50, 74, 75, 100)
	dist := buildDistribution(entries)

	require.Len(t, dist, 4)
	assert.Equal(t, 2, dist[0].Value) // 0, 24
	assert.Equal(t, 2, dist[1].Value) // 25, 49
	assert.Equal(t, 2, dist[2].Value) // 50, 74
	assert.Equal(t, 2, dist[3].Value) // 75, 100

	// Every entry lands in exactly one bucket
	total := 0
	for _, b := range dist {
		total += b.Value
	}
	assert.Equal(t, len(entries), total)
}

func TestBuildDistribution_EmitsEmptyBuckets(t *testing.T) {
	dist := buildDistribution(entriesWithLevels(10, 12))

	require.Len(t, dist, 4)
	assert.Equal(t, []string{"Low", "Moderate", "High", "Very High"},
		[]string{dist[0].Label, dist[1].Label, dist[2].Label, dist[3].Label})
	assert.Equal(t, 0, dist[1].Value)
	assert.Equal(t, 0, dist[2].Value)
	assert.Equal(t, 0, dist[3].Value)
	for _, b := range dist {
		assert.NotEmpty(t, b.Color)
	}
}

func TestBuildTrend_SortsByCreatedAt(t *testing.T) {
	entries := entriesWithLevels(10, 20, 30)
	// Shuffle insertion order; trend must still follow createdAt
	shuffled := []models.ConversationLog{entries[2], entries[0], entries[1]}

	trend := buildTrend(shuffled)
	require.Len(t, trend, 3)
	for i, p := range trend {
		assert.Equal(t, i+1, p.ChatNumber)
	}
	assert.Equal(t, 10, trend[0].StressLevel)
	assert.Equal(t, 20, trend[1].StressLevel)
	assert.Equal(t, 30, trend[2].StressLevel)
}

func TestBuildRecentSuggestions_SkipsEmptyAndCaps(t *testing.T) {
	entries := entriesWithLevels(10, 20, 30, 40, 50, 60, 70)
	entries[2].Suggestion = ""

	items := buildRecentSuggestions(entries)
	require.Len(t, items, 5)
	// Most recent first
	assert.Equal(t, "suggestion 7", items[0].Suggestion)
	assert.Equal(t, "suggestion 6", items[1].Suggestion)
	for _, item := range items {
		assert.NotEmpty(t, item.Suggestion)
	}
}

func TestStressCategory(t *testing.T) {
	assert.Equal(t, "Low", stressCategory(0))
	assert.Equal(t, "Low", stressCategory(24.9))
	assert.Equal(t, "Moderate", stressCategory(25))
	assert.Equal(t, "Moderate", stressCategory(49.9))
	assert.Equal(t, "High", stressCategory(50))
	assert.Equal(t, "High", stressCategory(74.9))
	assert.Equal(t, "Very High", stressCategory(75))
	assert.Equal(t, "Very High", stressCategory(100))
}

func TestImprovementFrom(t *testing.T) {
	point := func(n, level int) models.TrendPoint {
		return models.TrendPoint{ChatNumber: n, StressLevel: level}
	}

	assert.Equal(t, "insufficient data", improvementFrom(nil))
	assert.Equal(t, "insufficient data", improvementFrom([]models.TrendPoint{point(1, 80)}))
	assert.Equal(t, "needs attention", improvementFrom([]models.TrendPoint{point(1, 80), point(2, 80)}))
	assert.Equal(t, "improving", improvementFrom([]models.TrendPoint{point(1, 80), point(2, 50)}))
}

func TestSearchSuggestions_FuzzyMatches(t *testing.T) {
	entries := entriesWithLevels(10, 20, 30)
	entries[0].Suggestion = "Try a short breathing exercise"
	entries[1].Suggestion = "Go for an evening walk"
	entries[2].Suggestion = "Write down three good things"

	svc := NewAnalyticsService(&fakeConversationReader{entries: entries}, &fakeUserCounter{count: 3})

	results, err := svc.SearchSuggestions(context.Background(), "alice", "breathing", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Try a short breathing exercise", results[0].Suggestion)
}

func TestGetConversationCount(t *testing.T) {
	svc := NewAnalyticsService(&fakeConversationReader{}, &fakeUserCounter{count: 2})

	resp, err := svc.GetConversationCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ConversationCount)
	assert.Equal(t, 3, resp.RequiredConversations)
	assert.False(t, resp.HasEnoughData)
}
