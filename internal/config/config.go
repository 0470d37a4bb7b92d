package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds process-level settings read from the environment once at
// startup. Everything the admin can change at runtime lives in the
// settings store instead.
type Config struct {
	ListenPort int    `env:"PORT" envDefault:"7860"`
	DataDir    string `env:"DATA_DIR" envDefault:"data"`

	// Session cookie signing key; generated per process when empty.
	SessionSecret string `env:"SESSION_SECRET"`

	// Browser tool
	BrowserHeadless bool          `env:"BROWSER_HEADLESS" envDefault:"true"`
	BrowserTimeout  time.Duration `env:"BROWSER_TIMEOUT" envDefault:"30s"`

	// Upper bound on a single model call.
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"90s"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
