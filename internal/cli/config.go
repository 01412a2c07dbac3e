package cli

import (
	"time"

	"github.com/wastewise/wastewise-core/internal/agent/model"
	"github.com/wastewise/wastewise-core/internal/report"
	pkgredis "github.com/wastewise/wastewise-core/pkg/redis"
)

// AppConfig defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	WasteAPI struct {
		BaseURL string        `envconfig:"WASTEAPI_BASE_URL" default:"http://localhost:8000"`
		Timeout time.Duration `envconfig:"WASTEAPI_TIMEOUT" default:"10s"`
	}

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider, only needed by the assist command.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	Assistant    model.AssistantModelConfig
	Prompt       model.AssistantPromptConfig
	Conversation model.ConversationConfig
	Report       report.StoreConfig
}
