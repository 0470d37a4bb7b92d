// Package settings is the durable key/value configuration store. It keeps
// the whole document in memory, answers reads from schema defaults when a
// key was never written, and flushes the full document to disk on every
// mutation before reporting success.
package settings

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	KeyAdminPassword     = "admin_password"
	KeySetupComplete     = "is_setup_complete"
	KeyOpenAIAPIBase     = "openai_api_base"
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyModelName         = "model_name"
	KeyLLMProvider       = "llm_provider"
	KeyYandexOAuthToken  = "yandex_oauth_token"
	KeyYandexFolderID    = "yandex_folder_id"
	KeyTelegramBotToken  = "telegram_bot_token"
	KeyTelegramWebhook   = "telegram_webhook_url"
	KeyWebhookSecret     = "telegram_webhook_secret"
	KeySystemPrompt      = "system_prompt"
	KeyBrowserEnabled    = "browser_enabled"
	KeyContextWindow     = "context_window"
	KeyBrowserExcerpt    = "browser_excerpt_chars"
)

const defaultSystemPrompt = "You are a helpful AI assistant. You have access to a browser tool to search the web, summarize content, and translate it."

// Defaults is the settings schema: every key the rest of the system may
// ask for resolves to one of these values unless overwritten.
func Defaults() map[string]any {
	return map[string]any{
		KeyAdminPassword: "",
		KeySetupComplete: false,

		KeyOpenAIAPIBase:    "https://api.openai.com/v1",
		KeyOpenAIAPIKey:     "",
		KeyModelName:        "gpt-3.5-turbo",
		KeyLLMProvider:      "openai",
		KeyYandexOAuthToken: "",
		KeyYandexFolderID:   "",

		KeyTelegramBotToken: "",
		KeyTelegramWebhook:  "",
		KeyWebhookSecret:    "",

		KeySystemPrompt: defaultSystemPrompt,

		KeyBrowserEnabled: true,
		KeyContextWindow:  10,
		KeyBrowserExcerpt: 2000,
	}
}

type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// Open loads the settings document at path, falling back to schema
// defaults when the file is missing or unreadable. Stored keys outside
// the schema are kept as-is.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure settings dir: %w", err)
	}
	s := &Store{path: path, values: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		// corrupt document -> start from defaults
		return s, nil
	}
	for k, v := range stored {
		s.values[k] = v
	}
	return s, nil
}

// Get returns the stored value for key, or the schema default, or nil for
// keys outside the schema that were never written.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *Store) GetString(key string) string {
	v, _ := s.Get(key).(string)
	return v
}

func (s *Store) GetBool(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

// GetInt tolerates the float64 that encoding/json produces for stored
// numbers.
func (s *Store) GetInt(key string) int {
	switch v := s.Get(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Set merges one key into the document and persists it synchronously;
// concurrent readers observe the new value as soon as Set returns.
func (s *Store) Set(key string, value any) error {
	return s.SetMany(map[string]any{key: value})
}

func (s *Store) SetMany(updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range updates {
		s.values[k] = v
	}
	return s.saveLocked()
}

// Has reports whether key is part of the schema.
func (s *Store) Has(key string) bool {
	_, ok := Defaults()[key]
	return ok
}

// Snapshot returns a copy of the full document.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// VerifyPassword checks a login attempt against the stored admin
// password. Constant-time compare; no hashing, the store holds the
// credential as entered during setup.
func (s *Store) VerifyPassword(candidate string) bool {
	stored := s.GetString(KeyAdminPassword)
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}

// saveLocked writes the whole document via temp file + rename so a crash
// mid-write never leaves a truncated settings file behind.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}
