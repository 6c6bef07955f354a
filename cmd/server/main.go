// server runs the identity HTTP service: auth endpoints, health, and the
// background session sweeper.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-platform/identity/internal/auth/service"
	"event-platform/identity/internal/config"
	"event-platform/identity/internal/db"
	"event-platform/identity/internal/mail"
	"event-platform/identity/internal/security"
	"event-platform/identity/internal/server"
	sessionrepo "event-platform/identity/internal/session/repository"
	"event-platform/identity/internal/session/sweeper"
	otelsetup "event-platform/identity/internal/telemetry/otel"
	userrepo "event-platform/identity/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "identity", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	hashPool := security.NewHashPool(security.NewHasher(cfg.BcryptCost), cfg.HashWorkers)
	defer hashPool.Close()

	var emailTokens *security.EmailVerifier
	if cfg.EmailTokenSecret != "" {
		emailTokens = security.NewEmailVerifier(cfg.EmailTokenSecret, cfg.EmailTTL())
	}

	var mailer mail.Emitter
	if emitter := mail.NewKafkaEmitter(cfg.MailKafkaBrokersList(), cfg.MailKafkaTopic); emitter != nil {
		defer emitter.Close()
		mailer = emitter
	} else {
		log.Println("mail dispatch disabled: KAFKA_BROKERS not set")
	}

	sessions := sessionrepo.NewPostgresRepository(database)
	manager := service.NewSessionManager(
		userrepo.NewPostgresRepository(database),
		sessions,
		hashPool,
		emailTokens,
		mailer,
		cfg.VerifyBaseURL,
		service.Config{AccessTTL: cfg.AccessTTL(), RefreshTTL: cfg.RefreshTTL()},
	)

	go sweeper.New(sessions, cfg.SweepEvery()).Run(ctx)

	router := server.New(server.Options{
		Manager:           manager,
		DB:                database,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.Handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("identity server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("server stopped")
}
