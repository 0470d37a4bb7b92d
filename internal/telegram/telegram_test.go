package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"clawlite/internal/settings"
)

// fakeAPI emulates the Bot API: answers getMe so client construction
// succeeds, and records the parameters of every other call.
type fakeAPI struct {
	mu      sync.Mutex
	calls   map[string]map[string]string
	failAll bool
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		_ = r.ParseForm()
		params := map[string]string{}
		for k := range r.Form {
			params[k] = r.Form.Get(k)
		}
		f.mu.Lock()
		f.calls[method] = params
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if f.failAll {
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "boom"})
			return
		}
		var result any = true
		switch method {
		case "getMe":
			result = map[string]any{"id": 1, "is_bot": true, "first_name": "Test", "username": "test_bot"}
		case "sendMessage":
			result = map[string]any{"message_id": 1}
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
	})
}

func (f *fakeAPI) params(method string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func newAdapter(t *testing.T) (*Adapter, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{calls: map[string]map[string]string{}}
	ts := httptest.NewServer(api.handler())
	t.Cleanup(ts.Close)

	st, err := settings.Open(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	if err := st.Set(settings.KeyTelegramBotToken, "123:abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	return NewWithEndpoint(st, ts.URL+"/bot%s/%s"), api
}

func TestRegisterWebhookSendsSecret(t *testing.T) {
	a, api := newAdapter(t)
	if !a.RegisterWebhook("https://bot.example/webhook", "shh") {
		t.Fatalf("RegisterWebhook returned false")
	}
	params := api.params("setWebhook")
	if params == nil {
		t.Fatalf("setWebhook never called")
	}
	if params["url"] != "https://bot.example/webhook" {
		t.Fatalf("unexpected url param: %q", params["url"])
	}
	if params["secret_token"] != "shh" {
		t.Fatalf("secret_token not sent: %v", params)
	}
}

func TestSendDeliversMarkdown(t *testing.T) {
	a, api := newAdapter(t)
	if !a.Send(42, "*hello*") {
		t.Fatalf("Send returned false")
	}
	params := api.params("sendMessage")
	if params["chat_id"] != "42" || params["text"] != "*hello*" {
		t.Fatalf("unexpected sendMessage params: %v", params)
	}
	if params["parse_mode"] != "Markdown" {
		t.Fatalf("parse mode not set: %v", params)
	}
}

func TestAPIFailureReturnsFalse(t *testing.T) {
	a, api := newAdapter(t)
	api.failAll = true
	if a.RegisterWebhook("https://bot.example/webhook", "") {
		t.Fatalf("RegisterWebhook should report failure")
	}
	if a.Send(42, "hi") {
		t.Fatalf("Send should report failure")
	}
}

func TestMissingTokenReturnsFalse(t *testing.T) {
	st, err := settings.Open(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	a := New(st)
	if a.RegisterWebhook("https://bot.example/webhook", "s") {
		t.Fatalf("registration without a token should fail")
	}
}
