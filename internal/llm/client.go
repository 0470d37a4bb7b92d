package llm

import "context"

// Message is one role-tagged entry of the model-bound context window.
type Message struct {
	Role    string
	Content string
}

// Response is one completion plus the token accounting the backend
// reported for it.
type Response struct {
	// Content is the completion text shown to the user.
	Content string
	// Model identifies which backend model produced the completion.
	Model string
	// Token counts as billed by the backend; zero when not reported.
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Params carries everything a backend might need to serve a completion;
// each provider picks the fields it cares about. Values come from the
// live settings store, so a credential change applies on the next call.
type Params struct {
	Provider         string
	APIKey           string
	BaseURL          string
	Model            string
	YandexOAuthToken string
	YandexFolderID   string
}

// Client is a stateless wrapper over one model backend: one attempt per
// call, no retries, no streaming.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
