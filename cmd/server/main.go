package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/auth"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/server"
	"chat-relay/services"
	"chat-relay/ws"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the whole relay and blocks until a signal or a server error.
// Returning instead of exiting lets every defer (database close included)
// execute on the way out.
func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("closing badger")
		_ = db.Close()
	}()

	// 3. Stores & domain services
	userRepo := repositories.NewUserRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	messageRepo := repositories.NewMessageRepository(db, log)

	tokens := auth.NewTokenManager([]byte(config.JWTSecret), config.JWTIssuer, config.AuthTokenDuration)
	verifier := auth.NewVerifier(log, tokens, userRepo)
	authService := services.NewAuthService(userRepo, tokens)

	filter, err := moderation.NewDefaultModerator(replacement)
	if err != nil {
		return fmt.Errorf("loading word lists failed: %w", err)
	}

	// 4. Live relay core
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, config.DeliveryTimeout)
	roomService := services.NewRoomService(log, roomRepo, messageRepo, userRepo, registry, router)

	sessionDeps := runtime.SessionDeps{
		Log:      log,
		Registry: registry,
		Router:   router,
		Oracle:   roomRepo,
		Gateway:  messageRepo,
		Rooms:    roomRepo,
		Users:    userRepo,
		Filter:   filter,
	}

	// 5. Background workers
	stats, err := observability.NewCollector()
	if err != nil {
		return fmt.Errorf("stats collector failed: %w", err)
	}
	sup := workers.NewSupervisor(log)
	sup.Add(
		workers.NewHeartbeatWorker(log, stats, config.HeartbeatInterval),
		workers.NewBadgerGCWorker(log, db, config.BadgerGCInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sup.Run(ctx)

	// 6. HTTP server
	mux := server.NewRouter(server.Deps{
		Verifier:  verifier,
		AuthAPI:   &server.AuthAPI{Auth: authService, Users: userRepo},
		RoomAPI:   &server.RoomAPI{Rooms: roomService},
		WSHandler: ws.NewHandler(log, verifier, sessionDeps, config.ConnectionBufferSize),
		Stats:     stats,
	})
	srv := server.New(config.Addr(), mux)

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", config.Addr(), "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
	case err := <-errChan:
		return err
	}

	// 8. Final cleanup
	_ = server.Shutdown(log, srv, config.ShutdownTimeout)
	sup.Stop()
	log.Info("program stopped cleanly")

	return nil
}
