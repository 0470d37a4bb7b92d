package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"clawlite/internal/bot"
	"clawlite/internal/browser"
	"clawlite/internal/config"
	"clawlite/internal/llm"
	"clawlite/internal/memory"
	"clawlite/internal/scheduler"
	"clawlite/internal/settings"
	"clawlite/internal/telegram"
	"clawlite/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	st, err := settings.Open(filepath.Join(cfg.DataDir, "config.json"))
	if err != nil {
		log.Fatalf("failed to open settings: %v", err)
	}

	lg, err := memory.Open(filepath.Join(cfg.DataDir, "memory.json"))
	if err != nil {
		log.Fatalf("failed to open conversation memory: %v", err)
	}

	fetcher := browser.New(cfg.BrowserHeadless, cfg.BrowserTimeout)
	clients := &llm.Factory{Timeout: cfg.LLMTimeout}
	core := bot.New(st, lg, fetcher, clients)
	tg := telegram.New(st)

	sched := scheduler.New(func() bool {
		url := st.GetString(settings.KeyTelegramWebhook)
		secret := st.GetString(settings.KeyWebhookSecret)
		if url == "" {
			return true
		}
		return tg.RegisterWebhook(url, secret)
	})
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	srv := web.New(cfg.ListenPort, st, core, tg, web.NewSessionAuth(cfg.SessionSecret))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("shutting down")
		if err := srv.Stop(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
