package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mental-wellness-be/internal/models"
	"mental-wellness-be/internal/utils"

	"github.com/google/uuid"
)

// ErrEmptyMessage is the only caller-facing rejection in the chat core.
var ErrEmptyMessage = errors.New("message text is required")

// conversationStore and userCounter are the slices of the repositories the
// chat flow needs; the Mongo repositories satisfy them.
type conversationStore interface {
	Insert(ctx context.Context, entry *models.ConversationLog) error
}

type userCounter interface {
	IncrementConversationCount(ctx context.Context, username string, at time.Time) error
	GetConversationCount(ctx context.Context, username string) (int, error)
}

// ChatService handles one inbound message end to end: score it, draft a
// reply, and log the exchange.
type ChatService struct {
	stress        StressService
	reply         ReplyService
	conversations conversationStore
	users         userCounter
}

func NewChatService(stress StressService, reply ReplyService, conversations conversationStore, users userCounter) *ChatService {
	return &ChatService{
		stress:        stress,
		reply:         reply,
		conversations: conversations,
		users:         users,
	}
}

// SubmitMessage scores and answers a message, then records the exchange.
// Recording is best effort: a down store never costs the caller their reply.
func (s *ChatService) SubmitMessage(ctx context.Context, username, message, sessionID string) (*models.SendMessageResponse, error) {
	message = utils.SanitizeText(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// Scoring and reply generation are independent; run them together.
	var (
		analysis models.StressAnalysis
		reply    string
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		analysis = s.stress.ScoreMessage(ctx, message)
	}()
	go func() {
		defer wg.Done()
		reply = s.reply.Reply(ctx, message)
	}()
	wg.Wait()

	count := s.recordInteraction(username, message, reply, analysis, sessionID)

	return &models.SendMessageResponse{
		Result:            reply,
		StressAnalysis:    analysis,
		ConversationCount: count,
	}, nil
}

// recordInteraction appends the log entry and bumps the user's counter.
// Failures are logged for operators and otherwise swallowed. Returns the
// counter after the write, or 0 when it could not be read.
func (s *ChatService) recordInteraction(username, message, reply string, analysis models.StressAnalysis, sessionID string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	entry := &models.ConversationLog{
		Username:    username,
		Message:     message,
		Reply:       reply,
		StressLevel: analysis.StressLevel,
		Confidence:  analysis.Confidence,
		Suggestion:  analysis.Suggestion,
		SessionID:   sessionID,
		CreatedAt:   now,
	}

	if err := s.conversations.Insert(ctx, entry); err != nil {
		log.Printf("conversation log: skipping record for %s, store unreachable: %v", username, err)
		return 0
	}

	if err := s.users.IncrementConversationCount(ctx, username, now); err != nil {
		// The reconcile worker repairs the counter from the log later.
		log.Printf("conversation log: failed to bump counter for %s: %v", username, err)
	}

	count, err := s.users.GetConversationCount(ctx, username)
	if err != nil {
		log.Printf("conversation log: failed to read counter for %s: %v", username, err)
		return 0
	}
	return count
}
