package repository

import (
	"context"

	"github.com/m-mizutani/pitcrew/pkg/model"
)

// Repository defines the interface for chat and status persistence.
// Both record types are write-once: created, never updated or deleted.
type Repository interface {
	// PutChatMessage saves a chat exchange
	PutChatMessage(ctx context.Context, msg *model.ChatMessage) error

	// ListChatMessages retrieves the exchanges of a session ordered by
	// timestamp ascending, capped at 100 records. A session with no
	// history yields an empty slice, not an error.
	ListChatMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)

	// PutStatusCheck saves a status check record
	PutStatusCheck(ctx context.Context, check *model.StatusCheck) error

	// ListStatusChecks retrieves status check records, capped at 1000.
	// No ordering is guaranteed.
	ListStatusChecks(ctx context.Context) ([]*model.StatusCheck, error)

	// Close releases the underlying store connection
	Close() error
}
