package main

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/infrastructure/http/server"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a shutdown signal.
// Returning instead of exiting lets the deferred closes flush badger and sqlite.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	queue, closeQueue, err := buildQueue(ctx, config, db, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer closeQueue()

	confessionRepository, err := repositories.NewConfessionRepository(config.SqliteFilepath)
	if err != nil {
		return exitRuntime, fmt.Errorf("confession store opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing SQLite...")
		_ = confessionRepository.Close()
	}()

	dictionary, err := moderation.LoadDictionary()
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(dictionary.Words, charReplacement)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to build moderator: %w", err)
	}
	logger.Debug(fmt.Sprintf("Loaded %d censored words", len(dictionary.Words)), "languages", dictionary.Languages)

	// 3. Routing core
	router := runtime.NewRouter(logger, buildVerifier(config, logger), runtime.NewRegistry(),
		repositories.NewMessageRepository(db, logger, config.LimitMessages), queue,
		config.Suffix(), config.VerifyTimeout, config.CloseReplacedSessions)
	chatService := services.NewChatService(router)
	confessionService := services.NewConfessionService(logger, confessionRepository, moderator)

	// 4. Transport & Supervision
	chatServer := server.NewChatServer(logger, chatService, config.Origins(), config.WriteTimeout)
	handler := server.NewHandler(
		chatServer,
		server.NewConfessionServer(logger, confessionService),
		config.Origins(),
	)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewHTTPWorker(logger, config.Address(), handler, config.ShutdownTimeout),
		workers.NewHealthWorker(logger, config.HealthAddress()),
		workers.NewHeartbeatWorker(logger, chatService, config.HeartbeatInterval),
	)
	if logger.Enabled(ctx, slog.LevelDebug) {
		debugAddress := fmt.Sprintf("localhost:%d", config.DebugPort)
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://%s/inspect", debugAddress))
		sup.Add(workers.NewHTTPWorker(logger, debugAddress, internal.NewDebugHandler(logger, db, internal.MessageMapper), config.ShutdownTimeout))
	}

	// 5. Wait for Stop
	// The supervisor returns once the signal context is canceled and every worker has exited.
	sup.Run(ctx)

	// 6. Drain live connections before the deferred store and queue closes run
	chatService.CloseAll()
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancelDrain()
	if err = chatServer.Wait(drainCtx); err != nil {
		logger.Warn("Websocket handlers still running at shutdown", "error", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// buildQueue uses the Redis list layout when REDIS_URL is set, badger otherwise.
func buildQueue(ctx context.Context, config internal.Config, db *badger.DB, logger *slog.Logger) (repositories.IOfflineQueue, func(), error) {
	if config.RedisURL != nil {
		options, err := redis.ParseURL(*config.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(options)
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		logger.Info("Offline queue backed by Redis", "address", options.Addr)
		return repositories.NewRedisQueue(client, logger), func() { _ = client.Close() }, nil
	}

	queue, err := repositories.NewOfflineQueue(db, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("offline queue opening failed: %w", err)
	}
	logger.Info("Offline queue backed by BadgerDB")
	return queue, func() { _ = queue.Close() }, nil
}

func buildVerifier(config internal.Config, logger *slog.Logger) contract.IdentityVerifier {
	if config.VerifyAPI != nil {
		logger.Info("Identity verified remotely", "endpoint", *config.VerifyAPI)
		return auth.NewRemoteVerifier(*config.VerifyAPI, config.VerifyTimeout, logger)
	}
	logger.Info("Identity verified with the local JWT secret")
	return auth.NewTokenVerifier([]byte(config.JWTSecret))
}
