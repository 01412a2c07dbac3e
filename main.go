package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/wastewise/wastewise-core/internal/agent/graph"
	"github.com/wastewise/wastewise-core/internal/agent/repo"
	"github.com/wastewise/wastewise-core/internal/cli"
	"github.com/wastewise/wastewise-core/internal/core"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
	"github.com/wastewise/wastewise-core/pkg/wasteapi/legacy"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load(".env")

	var cfg cli.AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Init()
		logx.Error().Err(err).Msg("Failed to process environment config")
		return 1
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(cfg.Environment),
		Level:       cfg.LogLevel,
	})
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logx.Warn().Err(envErr).Msg("Could not load .env file")
	}

	api, err := wasteapi.New(cfg.WasteAPI.BaseURL,
		wasteapi.WithTimeout(cfg.WasteAPI.Timeout),
		wasteapi.WithUserAgent("wastewise/"+version),
	)
	if err != nil {
		logx.Error().Err(err).Str("base_url", cfg.WasteAPI.BaseURL).Msg("Invalid WASTEAPI_BASE_URL")
		return 1
	}

	return cli.Run(ctx, os.Args[1:], cli.Deps{
		Config: cfg,
		API:    api,
		Legacy: legacy.NewClient(cfg.WasteAPI.BaseURL),
		OpenRedis: func(ctx context.Context) (redis.UniversalClient, error) {
			rdb, err := cfg.Redis.New(ctx)
			if err != nil {
				return nil, err
			}
			return rdb, nil
		},
		NewAssistant: func(ctx context.Context, rdb redis.Cmdable) (graph.Runner, error) {
			if cfg.APIKey == "" {
				return nil, errors.New("GEMINI_API_KEY is not set")
			}
			return graph.BuildAssistantGraph(ctx, graph.Config{
				APIKey:           cfg.APIKey,
				BaseURL:          cfg.BaseURL,
				AssistantModel:   cfg.Assistant,
				AssistantPrompt:  cfg.Prompt,
				Conversation:     cfg.Conversation,
				ConversationRepo: repo.NewRedisConversationRepository(rdb, cfg.Conversation.TTL),
				API:              api,
			})
		},
	})
}
