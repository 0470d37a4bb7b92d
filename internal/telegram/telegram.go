// Package telegram relays replies back to the Telegram Bot API and keeps
// the inbound webhook registered. Every operation is best-effort: a
// failure is logged and reported as false, never raised.
package telegram

import (
	"errors"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clawlite/internal/settings"
)

type Adapter struct {
	settings *settings.Store
	endpoint string

	mu       sync.Mutex
	api      *tgbotapi.BotAPI
	apiToken string
}

func New(st *settings.Store) *Adapter {
	return &Adapter{settings: st, endpoint: tgbotapi.APIEndpoint}
}

// NewWithEndpoint points the adapter at a non-default API endpoint.
func NewWithEndpoint(st *settings.Store, endpoint string) *Adapter {
	return &Adapter{settings: st, endpoint: endpoint}
}

// client returns a bot client for the currently configured token,
// rebuilding it when the admin changes the token at runtime.
func (a *Adapter) client() (*tgbotapi.BotAPI, error) {
	token := a.settings.GetString(settings.KeyTelegramBotToken)
	if token == "" {
		return nil, errors.New("no bot token configured")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.api != nil && a.apiToken == token {
		return a.api, nil
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, a.endpoint)
	if err != nil {
		return nil, err
	}
	a.api = api
	a.apiToken = token
	return api, nil
}

// RegisterWebhook points Telegram at url for inbound updates. The secret
// is echoed back by Telegram in the X-Telegram-Bot-Api-Secret-Token
// header so the webhook handler can reject forged requests.
func (a *Adapter) RegisterWebhook(url, secret string) bool {
	api, err := a.client()
	if err != nil {
		log.Printf("telegram: cannot build client: %v", err)
		return false
	}
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		log.Printf("telegram: setWebhook failed: %v", err)
		return false
	}
	if !resp.Ok {
		log.Printf("telegram: setWebhook rejected: %s", resp.Description)
		return false
	}
	log.Printf("telegram: webhook set to %s", url)
	return true
}

// DeleteWebhook removes the registration.
func (a *Adapter) DeleteWebhook() bool {
	api, err := a.client()
	if err != nil {
		log.Printf("telegram: cannot build client: %v", err)
		return false
	}
	if _, err := api.MakeRequest("deleteWebhook", tgbotapi.Params{}); err != nil {
		log.Printf("telegram: deleteWebhook failed: %v", err)
		return false
	}
	return true
}

// Send delivers one message; single attempt, no confirmation tracking.
func (a *Adapter) Send(chatID int64, text string) bool {
	api, err := a.client()
	if err != nil {
		log.Printf("telegram: cannot build client: %v", err)
		return false
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := api.Send(msg); err != nil {
		log.Printf("telegram: send to %d failed: %v", chatID, err)
		return false
	}
	return true
}
