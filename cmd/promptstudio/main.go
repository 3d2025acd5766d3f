// PromptStudio server binary. Wires the chat, image generation, and quick
// action components behind the HTTP API and manages process lifecycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/artefluxo/promptstudio/internal/api"
	"github.com/artefluxo/promptstudio/internal/genai"
	"github.com/artefluxo/promptstudio/internal/imagegen"
	"github.com/artefluxo/promptstudio/internal/lockfile"
	"github.com/artefluxo/promptstudio/internal/store"
	"github.com/artefluxo/promptstudio/internal/util"
)

const (
	defaultStateDir   = "/var/lib/promptstudio"
	defaultDBFileName = "promptstudio.db"
)

// Config holds all runtime configuration resolved from environment
// variables and command line flags.
type Config struct {
	StateDir      string
	DatabaseDSN   string
	APIAddr       string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string
	FalAPIKey     string
	FalBaseURL    string
}

func main() {
	initializeLogger()

	cfg := loadEnvironmentConfig()
	parseCommandLineFlags(&cfg)

	if err := run(cfg); err != nil {
		slog.Error("main: server exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initializeLogger sets up structured logging. DEBUG=true enables debug
// level output.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	slog.Debug("main.initializeLogger: logger initialized", "level", level)
}

// loadEnvironmentConfig reads configuration from a .env file (if present)
// and environment variables.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("main.loadEnvironmentConfig: no .env file loaded", "error", err)
	}

	stateDir := os.Getenv("PROMPTSTUDIO_STATE_DIR")
	if stateDir == "" {
		stateDir = defaultStateDir
	}

	falKey := os.Getenv("FAL_AI_API_KEY")
	if falKey == "" {
		falKey = os.Getenv("FAL_KEY")
	}

	cfg := Config{
		StateDir:      stateDir,
		DatabaseDSN:   os.Getenv("DATABASE_URL"),
		APIAddr:       os.Getenv("API_ADDR"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     os.Getenv("CHAT_MODEL"),
		FalAPIKey:     falKey,
		FalBaseURL:    os.Getenv("FAL_BASE_URL"),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = filepath.Join(cfg.StateDir, defaultDBFileName)
		slog.Debug("main.loadEnvironmentConfig: no DATABASE_URL set, using SQLite in state directory", "dsn", cfg.DatabaseDSN)
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = api.DefaultAddr
	}

	return cfg
}

// parseCommandLineFlags overlays command line flags on the environment
// configuration. Flags take precedence over environment variables.
func parseCommandLineFlags(cfg *Config) {
	flag.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for runtime state (lock file, default SQLite database)")
	flag.StringVar(&cfg.DatabaseDSN, "db-dsn", cfg.DatabaseDSN, "Database DSN (SQLite file path or Postgres connection string)")
	flag.StringVar(&cfg.APIAddr, "addr", cfg.APIAddr, "HTTP listen address")
	flag.StringVar(&cfg.OpenAIAPIKey, "openai-api-key", cfg.OpenAIAPIKey, "OpenAI API key for chat completions")
	flag.StringVar(&cfg.OpenAIBaseURL, "openai-base-url", cfg.OpenAIBaseURL, "Override base URL for the OpenAI API")
	flag.StringVar(&cfg.ChatModel, "chat-model", cfg.ChatModel, "Default chat completion model")
	flag.StringVar(&cfg.FalAPIKey, "fal-api-key", cfg.FalAPIKey, "fal.ai API key for image generation")
	flag.StringVar(&cfg.FalBaseURL, "fal-base-url", cfg.FalBaseURL, "Override base URL for the fal.ai API")
	flag.Parse()
}

func run(cfg Config) error {
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", cfg.StateDir, err)
	}

	lock, err := lockfile.Acquire(cfg.StateDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	st, err := openStore(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	chatOpts := []genai.Option{genai.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		chatOpts = append(chatOpts, genai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	if cfg.ChatModel != "" {
		chatOpts = append(chatOpts, genai.WithModel(cfg.ChatModel))
	}
	if maxTokens := util.ParseIntEnv("CHAT_MAX_TOKENS", 0); maxTokens > 0 {
		chatOpts = append(chatOpts, genai.WithMaxTokens(maxTokens))
	}
	chat, err := genai.NewClient(chatOpts...)
	if err != nil {
		return fmt.Errorf("failed to create chat client: %w", err)
	}

	imageOpts := []imagegen.Option{imagegen.WithAPIKey(cfg.FalAPIKey)}
	if cfg.FalBaseURL != "" {
		imageOpts = append(imageOpts, imagegen.WithBaseURL(cfg.FalBaseURL))
	}
	images, err := imagegen.NewProvider(imageOpts...)
	if err != nil {
		return fmt.Errorf("failed to create image generation provider: %w", err)
	}

	srv := api.NewServer(chat, images, st, api.WithAddr(cfg.APIAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("main.run: starting server", "addr", cfg.APIAddr, "state_dir", cfg.StateDir, "db_type", store.DetectDSNType(cfg.DatabaseDSN))
	return srv.Run(ctx)
}

// openStore selects a storage backend from the DSN. Postgres connection
// strings get the Postgres store, anything else is treated as a SQLite
// file path.
func openStore(dsn string) (store.Store, error) {
	switch store.DetectDSNType(dsn) {
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(dsn))
	default:
		return store.NewSQLiteStore(store.WithDSN(dsn))
	}
}
