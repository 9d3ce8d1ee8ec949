package services

import (
	"context"
	"log"
	"time"

	"mental-wellness-be/internal/repository"
)

// StartReconcileWorker starts a background goroutine that periodically
// recomputes each user's conversationCount from the append-only log and
// repairs any drift in the cached counter (e.g. after a failed increment).
// The worker stops when ctx is done.
func StartReconcileWorker(ctx context.Context, interval time.Duration, users *repository.UserRepository, conversations *repository.ConversationRepository) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("reconcile worker: shutting down")
				return
			case <-ticker.C:
				usernames, err := users.ListUsernames(ctx)
				if err != nil {
					log.Println("reconcile worker: error listing users:", err)
					continue
				}
				for _, username := range usernames {
					actual, err := conversations.CountByUsername(ctx, username)
					if err != nil {
						log.Println("reconcile worker: error counting log for", username, err)
						continue
					}
					cached, err := users.GetConversationCount(ctx, username)
					if err != nil {
						continue
					}
					if cached != actual {
						log.Printf("reconcile worker: fixing counter for %s: %d -> %d", username, cached, actual)
						if err := users.SetConversationCount(ctx, username, actual); err != nil {
							log.Println("reconcile worker: failed to fix counter for", username, err)
						}
					}
				}
			}
		}
	}()
}
