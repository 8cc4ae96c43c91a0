package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"coach-ai/backend/internal/api"
	"coach-ai/backend/internal/config"
	"coach-ai/backend/internal/database"
	"coach-ai/backend/internal/llm"
	"coach-ai/backend/internal/repository"
	"coach-ai/backend/internal/secure"
	"coach-ai/backend/internal/service"
)

// App holds the wired application. DB or Redis is set depending on the
// configured credentials backend; both are nil when storage is unavailable.
type App struct {
	DB     *sql.DB
	Redis  *redis.Client
	Chat   *service.ChatService
	Server *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{}

	repo, err := app.openRepository(cfg)
	if err != nil {
		return nil, err
	}
	cipher := loadCipher(cfg)

	credentialService := service.NewCredentialService(repo, cipher)
	factory := llm.NewClientFactory(llm.TransportConfig{
		BaseURL:           cfg.OpenAIBaseURL,
		ConnectTimeout:    cfg.ConnectTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	app.Chat = service.NewChatService(credentialService, factory, service.ChatConfig{
		Model:        cfg.OpenAIModel,
		SystemPrompt: cfg.SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		HistoryLimit: cfg.HistoryLimit,
	})
	slog.Info("Chat service ready", "model", cfg.OpenAIModel, "key_configured", app.Chat.HasAPIKey(context.Background()))

	chatHandler := api.NewChatHandler(app.Chat)
	credentialHandler := api.NewCredentialHandler(app.Chat, credentialService)
	router := api.NewRouter(chatHandler, credentialHandler)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return app, nil
}

// openRepository connects the configured backend. A backend that cannot be
// reached leaves the repository nil and the credential store runs degraded.
func (a *App) openRepository(cfg *config.Config) (repository.SecretRepository, error) {
	switch cfg.CredentialsBackend {
	case "sqlite", "":
		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			slog.Error("Failed to initialize database, API keys will not be persisted", "path", cfg.DatabasePath, "error", err)
			return nil, nil
		}
		slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)
		a.DB = db
		return repository.NewSQLiteRepository(db), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Keep the client: go-redis reconnects on its own once the server is up.
			slog.Warn("Redis is not reachable yet", "addr", cfg.RedisAddr, "error", err)
		} else {
			slog.Info("Successfully connected to Redis.", "addr", cfg.RedisAddr)
		}
		a.Redis = rdb
		return repository.NewRedisRepository(rdb), nil
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", cfg.CredentialsBackend)
	}
}

// loadCipher returns nil when the master key is unavailable.
func loadCipher(cfg *config.Config) *secure.Cipher {
	ks := secure.NewFileKeyStore(cfg.MasterKeyPath)
	master, err := secure.LoadOrCreateMasterKey(ks, cfg.MasterPassphrase)
	if err != nil {
		slog.Error("Failed to load master key, API keys will not be persisted", "path", ks.Path(), "error", err)
		return nil
	}
	defer secure.ZeroBytes(master)

	cipher, err := secure.NewCipher(master)
	if err != nil {
		slog.Error("Failed to initialize credential encryption", "error", err)
		return nil
	}
	return cipher
}

// Close releases the storage connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("Failed to close storage connection", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		serverErr <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return 1
		}
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
