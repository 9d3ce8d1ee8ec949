package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationLog is one scored chat exchange, appended per message.
type ConversationLog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Message     string             `json:"message" bson:"message"`
	Reply       string             `json:"reply" bson:"reply"`
	StressLevel int                `json:"stressLevel" bson:"stressLevel"`
	Confidence  int                `json:"confidence" bson:"confidence"`
	Suggestion  string             `json:"suggestion" bson:"suggestion"`
	SessionID   string             `json:"sessionId" bson:"sessionId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// StressAnalysis is what the stress scorer returns for a single message.
type StressAnalysis struct {
	StressLevel int    `json:"stressLevel"`
	Confidence  int    `json:"confidence"`
	Suggestion  string `json:"suggestion"`
}

type SendMessageRequest struct {
	Username  string `json:"username" binding:"required"`
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

type SendMessageResponse struct {
	Result            string         `json:"result"`
	StressAnalysis    StressAnalysis `json:"stressAnalysis"`
	ConversationCount int            `json:"conversationCount"`
}
