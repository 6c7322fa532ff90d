// Package assistant coordinates the chat pipeline: prompt selection,
// the model gateway call, fallback handling, and persistence.
package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pitcrew/pkg/adapter"
	"github.com/m-mizutani/pitcrew/pkg/model"
	"github.com/m-mizutani/pitcrew/pkg/prompt"
	"github.com/m-mizutani/pitcrew/pkg/repository"
	"github.com/m-mizutani/pitcrew/pkg/utils/logging"
)

// apologyResponse is returned when the provider fails for any reason
// other than a quota/billing condition.
const apologyResponse = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// Assistant handles chat requests against the model provider and the
// persistence layer. Provider failures are absorbed into degraded
// responses; only persistence failures surface to the caller.
type Assistant struct {
	repo   repository.Repository
	gemini adapter.Gemini
}

func New(repo repository.Repository, gemini adapter.Gemini) *Assistant {
	return &Assistant{
		repo:   repo,
		gemini: gemini,
	}
}

// ChatInput contains parameters for a single chat exchange. SessionID
// and DrivingStatus are optional.
type ChatInput struct {
	Message       string
	SessionID     string
	DrivingStatus model.DrivingStatus
}

// Chat resolves the session and driving status, obtains a reply, and
// persists the exchange. A missing session ID gets a freshly generated
// one; a missing driving status defaults to parked.
func (x *Assistant) Chat(ctx context.Context, input ChatInput) (*model.ChatResponse, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	status := input.DrivingStatus
	if status == "" {
		status = model.StatusParked
	}

	reply := x.generateReply(ctx, sessionID, input.Message, status)

	msg := &model.ChatMessage{
		ID:            model.NewChatMessageID(),
		SessionID:     sessionID,
		Message:       input.Message,
		Response:      reply,
		DrivingStatus: status.Normalize(),
		Timestamp:     time.Now().UTC(),
	}

	if err := x.repo.PutChatMessage(ctx, msg); err != nil {
		return nil, goerr.Wrap(err, "failed to process chat message",
			goerr.V("session_id", sessionID),
		)
	}

	return &model.ChatResponse{
		Response:  reply,
		SessionID: sessionID,
		MessageID: msg.ID,
	}, nil
}

// generateReply makes the single provider call. On failure it degrades
// to the keyword-matched fallback when the error looks like a quota or
// billing condition, and to a fixed apology otherwise. It never
// returns an error.
func (x *Assistant) generateReply(ctx context.Context, sessionID, message string, status model.DrivingStatus) string {
	systemPrompt := prompt.System(status)

	reply, err := x.gemini.GenerateReply(ctx, systemPrompt, sessionID, message)
	if err == nil {
		return reply
	}

	logging.From(ctx).Error("model provider call failed",
		"error", err,
		"session_id", sessionID,
	)

	if isQuotaError(err) {
		return prompt.Fallback(message, status)
	}
	return apologyResponse
}

// isQuotaError detects quota/billing conditions by inspecting the
// error text, matching the provider's message wording.
func isQuotaError(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "quota") || strings.Contains(text, "billing")
}

// History returns the exchanges of a session ordered by timestamp
// ascending, capped at 100 records.
func (x *Assistant) History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	messages, err := x.repo.ListChatMessages(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve chat history",
			goerr.V("session_id", sessionID),
		)
	}
	return messages, nil
}

// CreateStatusCheck persists a new status check record for the client.
func (x *Assistant) CreateStatusCheck(ctx context.Context, clientName string) (*model.StatusCheck, error) {
	check := &model.StatusCheck{
		ID:         model.NewStatusCheckID(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	if err := x.repo.PutStatusCheck(ctx, check); err != nil {
		return nil, goerr.Wrap(err, "failed to create status check",
			goerr.V("client_name", clientName),
		)
	}

	return check, nil
}

// ListStatusChecks returns up to 1000 status check records.
func (x *Assistant) ListStatusChecks(ctx context.Context) ([]*model.StatusCheck, error) {
	checks, err := x.repo.ListStatusChecks(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list status checks")
	}
	return checks, nil
}
