package main

import (
	pb "cinechat/api/chat"
	"cinechat/auth"
	"cinechat/infrastructure/grpc/server"
	"cinechat/infrastructure/pubsub"
	"cinechat/infrastructure/storage"
	"cinechat/internal"
	"cinechat/runtime"
	"cinechat/runtime/workers"
	"cinechat/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownGrace = 5 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Master terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (database, feed) always run before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Releases the directory lock and flushes buffers before returning.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Storage, change feed & services
	feed := pubsub.NewFeed(logger, config.FeedBufferSize)
	defer func() { _ = feed.Close() }()

	registry := runtime.NewRegistry()
	roomRepository := storage.NewRoomRepository(db, logger)
	messageRepository := storage.NewMessageRepository(db, logger, config.LimitMessages)
	queueRepository := storage.NewQueueRepository(db, logger, config.MatchConflictRetries)

	roomService := services.NewRoomService(roomRepository)
	matchService := services.NewMatchService(logger, queueRepository, feed)
	messageService := services.NewMessageService(logger, roomRepository, messageRepository,
		feed, registry, config.MaxContentLength, config.SubscriptionBufferSize)

	rooms, err := roomService.EnsureBroadcastRooms(ctx, config.BroadcastRoomNames())
	if err != nil {
		return exitRuntime, fmt.Errorf("broadcast rooms provisioning failed: %w", err)
	}
	for _, room := range rooms {
		logger.Debug("Broadcast room ready", "room_id", room.ID, "name", room.Name)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://%s:%d%s", config.Host, config.DebugPort, endpoint))
		debugServer := internal.NewDebugServer(db, config.DebugPort, endpoint, internal.ChatMapper, func() map[string]any {
			depth, _ := queueRepository.Depth()
			return map[string]any{"queue_depth": depth, "subscriptions": registry.Count()}
		})
		internal.StartDebugServer(logger, debugServer)
		defer func() { _ = debugServer.Close() }()
	}

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(logger, sup, registry, feed, queueRepository,
		config.DeliveryTimeout, config.MetricInterval)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	go orchestrator.Start(ctx)

	// 6. gRPC Server Setup
	address := fmt.Sprintf("0.0.0.0:%d", config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			auth.UnaryInterceptor(tokens),
		),
		grpc.ChainStreamInterceptor(
			server.StreamLoggingInterceptor(logger),
			auth.StreamInterceptor(tokens),
		))
	chatServer := server.NewChatServer(logger, roomService, matchService, messageService)
	pb.RegisterChatServiceServer(s, chatServer)

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("📡 gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		orchestrator.Stop()
		return exitRuntime, err
	}

	// 8. Graceful shutdown. Subscriptions and pending matches never end on
	// their own, so after the grace period the remaining calls are cancelled.
	logger.Info("Shutting down gracefully...")
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		logger.Warn("Grace period elapsed, cancelling remaining calls")
		s.Stop()
	}
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}
