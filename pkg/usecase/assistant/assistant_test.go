package assistant_test

import (
	"context"
	"sort"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pitcrew/pkg/model"
	"github.com/m-mizutani/pitcrew/pkg/prompt"
	"github.com/m-mizutani/pitcrew/pkg/usecase/assistant"
)

// Mock Repository
type mockRepository struct {
	messages []*model.ChatMessage
	checks   []*model.StatusCheck

	putMessageErr error
	listErr       error
}

func (m *mockRepository) PutChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	if m.putMessageErr != nil {
		return m.putMessageErr
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockRepository) ListChatMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	result := []*model.ChatMessage{}
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *mockRepository) PutStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	m.checks = append(m.checks, check)
	return nil
}

func (m *mockRepository) ListStatusChecks(ctx context.Context) ([]*model.StatusCheck, error) {
	return m.checks, nil
}

func (m *mockRepository) Close() error {
	return nil
}

// Mock Gemini
type mockGemini struct {
	reply string
	err   error

	lastSystemPrompt string
	lastSessionID    string
	lastMessage      string
}

func (m *mockGemini) GenerateReply(ctx context.Context, systemPrompt, sessionID, message string) (string, error) {
	m.lastSystemPrompt = systemPrompt
	m.lastSessionID = sessionID
	m.lastMessage = message

	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestChatGeneratesSessionID(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{reply: "hello"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp1, err := uc.Chat(ctx, assistant.ChatInput{Message: "hi"})
	gt.NoError(t, err)
	resp2, err := uc.Chat(ctx, assistant.ChatInput{Message: "hi again"})
	gt.NoError(t, err)

	gt.V(t, resp1.SessionID).NotEqual("")
	gt.V(t, resp2.SessionID).NotEqual("")
	gt.V(t, resp1.SessionID).NotEqual(resp2.SessionID)
}

func TestChatEchoesSessionID(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{reply: "hello"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp, err := uc.Chat(ctx, assistant.ChatInput{
		Message:   "hi",
		SessionID: "session-1",
	})
	gt.NoError(t, err)

	gt.Equal(t, resp.SessionID, "session-1")
	gt.Equal(t, gemini.lastSessionID, "session-1")

	gt.A(t, repo.messages).Length(1)
	gt.Equal(t, repo.messages[0].SessionID, "session-1")
}

func TestChatUsesLiveReply(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{reply: "check your tire pressure monthly"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp, err := uc.Chat(ctx, assistant.ChatInput{
		Message:       "any maintenance tips?",
		DrivingStatus: model.StatusHighway,
	})
	gt.NoError(t, err)

	gt.Equal(t, resp.Response, "check your tire pressure monthly")
	gt.S(t, gemini.lastSystemPrompt).Contains("The user is on the highway.")
	gt.Equal(t, gemini.lastMessage, "any maintenance tips?")
}

func TestChatQuotaErrorUsesFallback(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{err: goerr.New("429: insufficient QUOTA for project")}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp, err := uc.Chat(ctx, assistant.ChatInput{
		Message:       "How can I improve my fuel efficiency?",
		DrivingStatus: model.StatusCityDriving,
	})
	gt.NoError(t, err)

	expected := prompt.Fallback("How can I improve my fuel efficiency?", model.StatusCityDriving)
	gt.Equal(t, resp.Response, expected)

	// The degraded reply is still persisted
	gt.A(t, repo.messages).Length(1)
	gt.Equal(t, repo.messages[0].Response, expected)
}

func TestChatBillingErrorUsesFallback(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{err: goerr.New("billing account is not active")}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp, err := uc.Chat(ctx, assistant.ChatInput{Message: "winter start trouble"})
	gt.NoError(t, err)

	gt.Equal(t, resp.Response, prompt.Fallback("winter start trouble", model.StatusParked))
}

func TestChatOtherProviderErrorUsesApology(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{err: goerr.New("connection reset by peer")}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	resp, err := uc.Chat(ctx, assistant.ChatInput{Message: "hello"})
	gt.NoError(t, err)

	gt.Equal(t, resp.Response, "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment.")
}

func TestChatPersistsNormalizedStatus(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{reply: "ok"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	_, err := uc.Chat(ctx, assistant.ChatInput{
		Message:       "hello",
		DrivingStatus: "submarine",
	})
	gt.NoError(t, err)

	gt.A(t, repo.messages).Length(1)
	gt.Equal(t, repo.messages[0].DrivingStatus, model.StatusParked)
}

func TestChatPersistenceFailure(t *testing.T) {
	repo := &mockRepository{putMessageErr: goerr.New("store unreachable")}
	gemini := &mockGemini{reply: "ok"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	_, err := uc.Chat(ctx, assistant.ChatInput{Message: "hello"})
	gt.Error(t, err)
}

func TestHistory(t *testing.T) {
	repo := &mockRepository{}
	gemini := &mockGemini{reply: "ok"}
	uc := assistant.New(repo, gemini)
	ctx := context.Background()

	for _, in := range []assistant.ChatInput{
		{Message: "first", SessionID: "s1"},
		{Message: "second", SessionID: "s1"},
		{Message: "other", SessionID: "s2"},
	} {
		_, err := uc.Chat(ctx, in)
		gt.NoError(t, err)
	}

	messages, err := uc.History(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, messages).Length(2)
	gt.Equal(t, messages[0].Message, "first")
	gt.Equal(t, messages[1].Message, "second")
	gt.False(t, messages[0].Timestamp.After(messages[1].Timestamp))
}

func TestHistoryEmptySession(t *testing.T) {
	repo := &mockRepository{}
	uc := assistant.New(repo, &mockGemini{reply: "ok"})

	messages, err := uc.History(context.Background(), "nobody")
	gt.NoError(t, err)
	gt.A(t, messages).Length(0)
}

func TestHistoryPersistenceFailure(t *testing.T) {
	repo := &mockRepository{listErr: goerr.New("store unreachable")}
	uc := assistant.New(repo, &mockGemini{reply: "ok"})

	_, err := uc.History(context.Background(), "s1")
	gt.Error(t, err)
}

func TestStatusChecks(t *testing.T) {
	repo := &mockRepository{}
	uc := assistant.New(repo, &mockGemini{reply: "ok"})
	ctx := context.Background()

	check, err := uc.CreateStatusCheck(ctx, "acme")
	gt.NoError(t, err)
	gt.Equal(t, check.ClientName, "acme")
	gt.V(t, string(check.ID)).NotEqual("")

	checks, err := uc.ListStatusChecks(ctx)
	gt.NoError(t, err)
	gt.A(t, checks).Length(1)
	gt.Equal(t, checks[0].ClientName, "acme")
}
