package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"clawlite/internal/settings"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// handleIndex routes the browser to setup, login or chat depending on
// where the install stands.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if !s.settings.GetBool(settings.KeySetupComplete) {
		http.Redirect(w, r, "/setup", http.StatusFound)
		return
	}
	if s.auth.Authenticated(r) {
		http.Redirect(w, r, "/chat", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleSetupPage(w http.ResponseWriter, r *http.Request) {
	if s.settings.GetBool(settings.KeySetupComplete) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	s.renderPage(w, "setup", nil)
}

// handleSetupSubmit is the one-time admin credential bootstrap.
func (s *Server) handleSetupSubmit(w http.ResponseWriter, r *http.Request) {
	if s.settings.GetBool(settings.KeySetupComplete) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	password := r.FormValue("password")
	if password == "" {
		s.renderPage(w, "setup", map[string]any{"Error": "Password is required"})
		return
	}
	err := s.settings.SetMany(map[string]any{
		settings.KeyAdminPassword: password,
		settings.KeySetupComplete: true,
	})
	if err != nil {
		log.Printf("setup: failed to persist settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "login", nil)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.settings.VerifyPassword(r.FormValue("password")) {
		s.renderPage(w, "login", map[string]any{"Error": "Invalid Password"})
		return
	}
	cookie, err := s.auth.IssueCookie()
	if err != nil {
		log.Printf("login: failed to issue session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/chat", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.auth.ClearCookie())
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "chat", nil)
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "admin", map[string]any{"Config": s.settings.Snapshot()})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) apiChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Empty message"})
		return
	}
	// A client abort must not cancel the turn mid-persist, so the
	// request context stays out of the pipeline.
	reply, err := s.core.Chat(context.Background(), req.Message)
	if err != nil {
		log.Printf("chat failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process message"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) apiHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"history": s.core.History()})
}

func (s *Server) apiHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.core.ClearHistory(); err != nil {
		log.Printf("failed to clear history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to clear history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// apiConfig merges posted keys into the settings document. Keys outside
// the schema are dropped. Touching the bot token or webhook URL
// re-registers the webhook with the platform.
func (s *Server) apiConfig(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	accepted := make(map[string]any, len(updates))
	for k, v := range updates {
		if s.settings.Has(k) {
			accepted[k] = v
		}
	}
	if len(accepted) > 0 {
		if err := s.settings.SetMany(accepted); err != nil {
			log.Printf("config: failed to persist settings: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
			return
		}
	}

	_, tokenChanged := accepted[settings.KeyTelegramBotToken]
	_, urlChanged := accepted[settings.KeyTelegramWebhook]
	if tokenChanged || urlChanged {
		s.registerWebhook()
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// registerWebhook (re-)registers the inbound endpoint, minting the
// shared secret on first use.
func (s *Server) registerWebhook() {
	url := s.settings.GetString(settings.KeyTelegramWebhook)
	if url == "" {
		return
	}
	secret := s.settings.GetString(settings.KeyWebhookSecret)
	if secret == "" {
		secret = uuid.NewString()
		if err := s.settings.SetMany(map[string]any{settings.KeyWebhookSecret: secret}); err != nil {
			log.Printf("config: failed to persist webhook secret: %v", err)
			return
		}
	}
	s.tg.RegisterWebhook(url, secret)
}

// handleWebhook accepts inbound Telegram updates. The platform always
// gets a 200 back; anything that went wrong is logged and reported only
// through the status field.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	// No secret means no registration has happened yet, so nothing
	// legitimate can be calling this endpoint.
	secret := s.settings.GetString(settings.KeyWebhookSecret)
	if secret == "" || r.Header.Get(secretTokenHeader) != secret {
		log.Printf("webhook: rejected request with missing or bad secret token")
		writeJSON(w, http.StatusOK, map[string]string{"status": "error"})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("webhook: malformed payload: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "error"})
		return
	}

	if update.Message != nil && update.Message.Text != "" && update.Message.Chat != nil {
		reply, err := s.core.Chat(context.Background(), "[Telegram] "+update.Message.Text)
		if err != nil {
			log.Printf("webhook: chat failed: %v", err)
			writeJSON(w, http.StatusOK, map[string]string{"status": "error"})
			return
		}
		s.tg.Send(update.Message.Chat.ID, reply)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
