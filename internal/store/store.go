// Package store persists per-conversation histories keyed by a
// hierarchical path string such as "chat/{conversationId}".
package store

import (
	"context"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
)

// Store is the conversation-history contract. Get reports absent
// histories with found=false rather than an error; Put is a full
// overwrite with no merge semantics; Delete removes the value so a
// subsequent Get reports absent. Last writer wins between concurrent
// get-modify-put cycles on the same key.
type Store interface {
	Get(ctx context.Context, path string) (turns []models.Turn, found bool, err error)
	Put(ctx context.Context, path string, turns []models.Turn) error
	Delete(ctx context.Context, path string) error
}

// ChatPath builds the store path for a conversation key.
func ChatPath(conversationKey string) string {
	return "chat/" + conversationKey
}
