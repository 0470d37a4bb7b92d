// Package bot is the conversation orchestrator: it turns one inbound
// utterance into a bounded, ordered message list for the model backend,
// optionally augmented with fetched page content, and records the
// exchange in the append-only log.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"clawlite/internal/browser"
	"clawlite/internal/llm"
	"clawlite/internal/memory"
	"clawlite/internal/settings"
)

// Setup replies are returned while the configured provider has no usable
// credentials; nothing is appended to the log in that state.
const (
	SetupReply       = "⚠️ Please configure your OpenAI API Key in the settings first."
	SetupReplyYandex = "⚠️ Please configure your Yandex OAuth token and folder ID in the settings first."
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) browser.Result
}

type ClientFactory interface {
	CreateClient(p llm.Params) (llm.Client, error)
}

type Core struct {
	mu       sync.Mutex
	settings *settings.Store
	log      *memory.Log
	fetcher  Fetcher
	clients  ClientFactory
}

func New(st *settings.Store, lg *memory.Log, fetcher Fetcher, clients ClientFactory) *Core {
	return &Core{settings: st, log: lg, fetcher: fetcher, clients: clients}
}

// Chat runs one full conversation turn and returns the reply text. Tool
// and backend failures come back as displayable text; the only error
// path is a failed flush of the log, in which case the caller must not
// report success.
func (c *Core) Chat(ctx context.Context, input string) (string, error) {
	// Credential gate, evaluated live on every call.
	if reply := c.missingCredentialReply(); reply != "" {
		return reply, nil
	}

	// One turn at a time: concurrent calls would interleave their
	// append+persist sequences and the later flush would win.
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Append(memory.RoleUser, input)

	if url := firstURL(input); url != "" && c.settings.GetBool(settings.KeyBrowserEnabled) {
		res := c.fetcher.Fetch(ctx, url)
		c.log.Append(memory.RoleSystem, "Browser Context: "+c.browseNote(res))
	}

	msgs := c.windowMessages()

	reply := c.generate(ctx, msgs)

	c.log.Append(memory.RoleAssistant, reply)
	if err := c.log.Save(); err != nil {
		return "", fmt.Errorf("persist conversation: %w", err)
	}
	return reply, nil
}

// History returns the full exchange log.
func (c *Core) History() []memory.Record {
	return c.log.All()
}

// ClearHistory wipes the exchange log.
func (c *Core) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Clear()
}

// missingCredentialReply returns the instructional reply for the
// configured provider when its credentials are absent, or "" when the
// pipeline may run.
func (c *Core) missingCredentialReply() string {
	switch strings.ToLower(c.settings.GetString(settings.KeyLLMProvider)) {
	case llm.ProviderYandex:
		if c.settings.GetString(settings.KeyYandexOAuthToken) == "" ||
			c.settings.GetString(settings.KeyYandexFolderID) == "" {
			return SetupReplyYandex
		}
	default:
		if c.settings.GetString(settings.KeyOpenAIAPIKey) == "" {
			return SetupReply
		}
	}
	return ""
}

// windowMessages assembles the model-bound list: system prompt first,
// then the most recent log records in original order.
func (c *Core) windowMessages() []llm.Message {
	window := c.settings.GetInt(settings.KeyContextWindow)
	if window <= 0 {
		window = 10
	}
	msgs := []llm.Message{{Role: memory.RoleSystem, Content: c.settings.GetString(settings.KeySystemPrompt)}}
	for _, rec := range c.log.Recent(window) {
		switch rec.Role {
		case memory.RoleUser, memory.RoleAssistant, memory.RoleSystem:
			msgs = append(msgs, llm.Message{Role: rec.Role, Content: rec.Content})
		}
	}
	return msgs
}

// generate calls the backend once; any failure becomes the reply text so
// the user always gets an answer.
func (c *Core) generate(ctx context.Context, msgs []llm.Message) string {
	client, err := c.clients.CreateClient(llm.Params{
		Provider:         c.settings.GetString(settings.KeyLLMProvider),
		APIKey:           c.settings.GetString(settings.KeyOpenAIAPIKey),
		BaseURL:          c.settings.GetString(settings.KeyOpenAIAPIBase),
		Model:            c.settings.GetString(settings.KeyModelName),
		YandexOAuthToken: c.settings.GetString(settings.KeyYandexOAuthToken),
		YandexFolderID:   c.settings.GetString(settings.KeyYandexFolderID),
	})
	if err != nil {
		log.Printf("failed to create llm client: %v", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	resp, err := client.Generate(ctx, msgs)
	if err != nil {
		log.Printf("failed to generate text: %v", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	log.Printf("LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	return resp.Content
}

// browseNote renders a fetch outcome as model context.
func (c *Core) browseNote(res browser.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user provided a URL: %s. I will browse it for you.\n", res.URL)
	if res.Failed() {
		fmt.Fprintf(&b, "Failed to fetch %s: %s", res.URL, res.Err)
		return b.String()
	}
	excerpt := c.settings.GetInt(settings.KeyBrowserExcerpt)
	if excerpt <= 0 {
		excerpt = 2000
	}
	fmt.Fprintf(&b, "Page Title: %s\nPage Content Summary: %s...", res.Title, browser.Truncate(res.Text, excerpt))
	return b.String()
}

// firstURL returns the first whitespace-delimited token carrying an
// http(s) scheme, or "".
func firstURL(text string) string {
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
			return word
		}
	}
	return ""
}
