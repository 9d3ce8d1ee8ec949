package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username          string             `json:"username" bson:"username"`
	Email             string             `json:"email" bson:"email"`
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Password          string             `json:"-" bson:"password"` // Never send password to client
	Provider          string             `json:"provider" bson:"provider"` // "email" or "google"
	GoogleID          string             `json:"-" bson:"googleId,omitempty"`
	RefreshToken      string             `json:"-" bson:"refreshToken,omitempty"`
	ConversationCount int                `json:"conversationCount" bson:"conversationCount"`
	LastChatAt        *time.Time         `json:"lastChatAt,omitempty" bson:"lastChatAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest accepts an email, username or phone as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
}

type GoogleAuthRequest struct {
	Token string `json:"token" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
