package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campus-connect-api/internal/application/cleanup"
	"github.com/campus-connect-api/internal/config"
	"github.com/campus-connect-api/internal/infrastructure/dynamo"
	"github.com/campus-connect-api/internal/infrastructure/email"
	jwtinfra "github.com/campus-connect-api/internal/infrastructure/jwt"
	"github.com/campus-connect-api/internal/infrastructure/sns"
	transporthttp "github.com/campus-connect-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Token signing is not optional; refuse to start without secrets.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	var mailer email.Sender
	switch cfg.EmailProvider {
	case "smtp":
		mailer, err = email.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Fatalf("SMTP sender: %v", err)
		}
	default:
		mailer = email.NewLogSender()
	}

	// Welcome notifier (optional — graceful fallback).
	var notifier sns.Notifier
	if n, err := sns.NewNotifier(cfg); err == nil {
		notifier = n
	} else {
		log.Printf("WARN: SNS notifier not available: %v", err)
	}

	otpRepo := dynamo.NewOtpRepo(dynamoClient, cfg.DynamoTables.Otps)
	tokenRepo := dynamo.NewRefreshTokenRepo(dynamoClient, cfg.DynamoTables.RefreshTokens)

	deps := &transporthttp.Deps{
		AccountRepo:      dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		OtpRepo:          otpRepo,
		RefreshTokenRepo: tokenRepo,
		Mailer:           mailer,
		Notifier:         notifier,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go cleanup.NewScheduler(otpRepo, tokenRepo, cfg.CleanupInterval).Run(cleanupCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopCleanup()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
