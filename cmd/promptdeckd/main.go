// promptdeckd is the completion dispatcher daemon. It exposes the model
// catalog, key management, the chat and teleprompter endpoints and the
// screenshot-driven extract-solve and debug workflows over HTTP, pushing
// workflow progress to clients over a websocket event stream.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/aiprovider"
	"github.com/promptdeck/promptdeck/pkg/config"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/httpapi"
	"github.com/promptdeck/promptdeck/pkg/keyring"
	"github.com/promptdeck/promptdeck/pkg/workflow"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	// Optional; keys and overrides may come from a local .env file.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("Failed to load config")
	}

	log := newLogger(cfg.Logging)

	keys := keyring.NewFromEnv()
	catalog := aimodels.Default()

	registry := aiprovider.NewRegistry()
	registry.Register(aimodels.ProviderOpenAI, aiprovider.NewOpenAIAdapter(keys, cfg.Providers.OpenAIBaseURL, log))
	registry.Register(aimodels.ProviderAnthropic, aiprovider.NewAnthropicAdapter(keys, cfg.Providers.AnthropicBaseURL, log))
	registry.Register(aimodels.ProviderGoogle, aiprovider.NewGeminiAdapter(keys, cfg.Providers.GeminiBaseURL, log))
	registry.Register(aimodels.ProviderDeepSeek, aiprovider.NewDeepSeekAdapter(keys, cfg.Providers.DeepSeekBaseURL, log))
	registry.Register(aimodels.ProviderMeta, aiprovider.NewMetaAdapter(keys, cfg.Providers.MetaBaseURL, log))
	registry.Register(aimodels.ProviderLocal, aiprovider.NewOllamaAdapter(cfg.Providers.OllamaBaseURL, log))

	dispatcher := dispatch.New(catalog, registry, keys, dispatch.RetryPolicy{
		MaxRetries: cfg.Dispatch.MaxRetries,
		Backoff:    cfg.Dispatch.Backoff.Std(),
	}, log)

	hub := httpapi.NewEventHub(log)
	runtime := workflow.NewRuntime(dispatcher, hub, cfg.Workflow.ProcessingTimeout.Std(), log)
	server := httpapi.NewServer(catalog, keys, runtime, hub, cfg.Workflow.Defaults, log)

	httpServer := &http.Server{
		Addr:        cfg.Listen,
		Handler:     server.Router(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down")
		runtime.CancelOngoing()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("listen", cfg.Listen).Msg("promptdeckd listening")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
