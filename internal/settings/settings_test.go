package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func open(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	return s
}

func TestDefaultsWhenNoFile(t *testing.T) {
	s := open(t, t.TempDir())
	if got := s.GetString(KeyModelName); got != "gpt-3.5-turbo" {
		t.Fatalf("unexpected default model: %q", got)
	}
	if !s.GetBool(KeyBrowserEnabled) {
		t.Fatalf("browser should default to enabled")
	}
	if s.GetBool(KeySetupComplete) {
		t.Fatalf("setup should default to incomplete")
	}
	if got := s.GetInt(KeyContextWindow); got != 10 {
		t.Fatalf("unexpected default window: %d", got)
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := open(t, dir)

	if err := s.Set(KeyOpenAIAPIKey, "sk-test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := s.GetString(KeyOpenAIAPIKey); got != "sk-test" {
		t.Fatalf("get after set: %q", got)
	}

	// A fresh load of the saved document must observe the same values.
	s2 := open(t, dir)
	if got := s2.GetString(KeyOpenAIAPIKey); got != "sk-test" {
		t.Fatalf("get after reload: %q", got)
	}
	if got := s2.GetString(KeyModelName); got != "gpt-3.5-turbo" {
		t.Fatalf("default lost on reload: %q", got)
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := open(t, dir)
	if got := s.GetString(KeyOpenAIAPIBase); got != "https://api.openai.com/v1" {
		t.Fatalf("corrupt file should yield defaults, got %q", got)
	}
}

func TestUnknownStoredKeysSurvive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"legacy_key": "kept"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := open(t, dir)
	if got, _ := s.Get("legacy_key").(string); got != "kept" {
		t.Fatalf("unknown key dropped on load: %v", s.Get("legacy_key"))
	}
	if err := s.Set(KeyModelName, "gpt-4o"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s2 := open(t, dir)
	if got, _ := s2.Get("legacy_key").(string); got != "kept" {
		t.Fatalf("unknown key dropped on save: %v", s2.Get("legacy_key"))
	}
}

func TestVerifyPassword(t *testing.T) {
	s := open(t, t.TempDir())
	if s.VerifyPassword("") || s.VerifyPassword("anything") {
		t.Fatalf("empty stored password must never verify")
	}
	if err := s.Set(KeyAdminPassword, "hunter2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.VerifyPassword("hunter2") {
		t.Fatalf("correct password rejected")
	}
	if s.VerifyPassword("hunter3") {
		t.Fatalf("wrong password accepted")
	}
}
