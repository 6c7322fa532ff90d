package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Gemini is the model gateway: one remote chat-completion call per
// request. Implementations make at most one attempt and do not retry.
type Gemini interface {
	GenerateReply(ctx context.Context, systemPrompt, sessionID, message string) (string, error)
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = model
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.5-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// GenerateReply sends the user message with the given system prompt and
// returns the model's text. The session ID is attached as a request
// label only; conversation state lives in the caller's store.
func (g *GeminiClient) GenerateReply(ctx context.Context, systemPrompt, sessionID, message string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Labels:            map[string]string{"session_id": sessionID},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content",
			goerr.V("session_id", sessionID),
		)
	}

	text := resp.Text()
	if text == "" {
		return "", goerr.New("empty response from model",
			goerr.V("session_id", sessionID),
		)
	}

	return text, nil
}
