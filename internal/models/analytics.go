package models

// Overview - headline numbers across a user's logged conversations
type Overview struct {
	AvgStress     float64 `json:"avgStress"`
	MaxStress     int     `json:"maxStress"`
	MinStress     int     `json:"minStress"`
	TotalChats    int     `json:"totalChats"`
	AvgConfidence float64 `json:"avgConfidence"`
}

// DistributionBucket - one fixed stress-level range with its chat count
type DistributionBucket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// TrendPoint - stress level of the Nth conversation, in chronological order
type TrendPoint struct {
	ChatNumber  int    `json:"chatNumber"`
	StressLevel int    `json:"stressLevel"`
	Date        string `json:"date"` // YYYY-MM-DD format
}

// SuggestionItem - a past wellness suggestion with its context
type SuggestionItem struct {
	Suggestion  string `json:"suggestion"`
	StressLevel int    `json:"stressLevel"`
	CreatedAt   string `json:"createdAt"`
}

// Insights - derived qualitative reading of the aggregate numbers
type Insights struct {
	AverageStressCategory string `json:"averageStressCategory"`
	Improvement           string `json:"improvement"`
}

// AnalyticsResponse - complete analytics view for the results dashboard.
// When HasEnoughData is false only ConversationCount, RequiredConversations
// and Message are populated.
type AnalyticsResponse struct {
	HasEnoughData         bool                 `json:"hasEnoughData"`
	ConversationCount     int                  `json:"conversationCount"`
	RequiredConversations int                  `json:"requiredConversations,omitempty"`
	Message               string               `json:"message,omitempty"`
	Overview              *Overview            `json:"overview,omitempty"`
	StressDistribution    []DistributionBucket `json:"stressDistribution,omitempty"`
	StressTrend           []TrendPoint         `json:"stressTrend,omitempty"`
	RecentSuggestions     []SuggestionItem     `json:"recentSuggestions,omitempty"`
	Insights              *Insights            `json:"insights,omitempty"`
}

// ConversationCountResponse - lightweight progress payload for the chat page
type ConversationCountResponse struct {
	ConversationCount     int  `json:"conversationCount"`
	RequiredConversations int  `json:"requiredConversations"`
	HasEnoughData         bool `json:"hasEnoughData"`
}
