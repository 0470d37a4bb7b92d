// Package web is the HTTP surface: the admin's setup/login/chat pages,
// the JSON API behind them, and the public Telegram webhook endpoint.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"clawlite/internal/memory"
)

// Chatter is the conversation orchestrator as seen from the HTTP layer.
type Chatter interface {
	Chat(ctx context.Context, input string) (string, error)
	History() []memory.Record
	ClearHistory() error
}

// Messenger relays outbound messages to the messaging platform.
type Messenger interface {
	RegisterWebhook(url, secret string) bool
	Send(chatID int64, text string) bool
}

type Server struct {
	settings SettingsStore
	core     Chatter
	tg       Messenger
	auth     *SessionAuth
	server   *http.Server
	port     int
}

// SettingsStore is the slice of the settings API the handlers need.
type SettingsStore interface {
	Get(key string) any
	GetString(key string) string
	GetBool(key string) bool
	SetMany(updates map[string]any) error
	Has(key string) bool
	Snapshot() map[string]any
	VerifyPassword(candidate string) bool
}

func New(port int, st SettingsStore, core Chatter, tg Messenger, auth *SessionAuth) *Server {
	return &Server{settings: st, core: core, tg: tg, auth: auth, port: port}
}

// Router builds the full route table; exposed separately so tests can
// drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/setup", s.handleSetupPage)
	r.Post("/setup", s.handleSetupSubmit)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLoginSubmit)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequirePage)
		r.Get("/chat", s.handleChatPage)
		r.Get("/admin", s.handleAdminPage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth.RequireAPI)
		r.Post("/chat", s.apiChat)
		r.Get("/history", s.apiHistory)
		r.Post("/history/clear", s.apiHistoryClear)
		r.Post("/config", s.apiConfig)
	})

	r.Post("/webhook", s.handleWebhook)

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		// a chat turn may spend 30s fetching a page plus a full model call
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("🌐 Starting web server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
