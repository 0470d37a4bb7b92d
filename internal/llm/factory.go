package llm

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory builds clients from the live configuration; the orchestrator
// calls it once per chat so credential changes take effect immediately.
type Factory struct {
	Timeout time.Duration
}

func (f *Factory) CreateClient(p Params) (Client, error) {
	switch strings.ToLower(p.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAI(p.APIKey, p.BaseURL, p.Model, f.Timeout), nil
	case ProviderYandex:
		return NewYandex(p.YandexOAuthToken, p.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", p.Provider)
	}
}
