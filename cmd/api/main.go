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

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	"github.com/go-otp-auth/internal/infrastructure/provider"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
	"github.com/go-otp-auth/internal/infrastructure/sns"
	transporthttp "github.com/go-otp-auth/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Token service — required, tokens cannot be issued without a secret.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	verificationRepo := dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications)
	codeAdapter := provider.NewDynamoAdapter(verificationRepo, smsSender, cfg.OTPTTL)

	// The registry is assembled once from the full adapter set; a duplicate
	// key aborts startup.
	registry, err := provider.NewRegistry(
		provider.NewFirebaseAdapter(),
		provider.NewTwilioAdapter(),
		codeAdapter,
	)
	if err != nil {
		log.Fatalf("provider registry: %v", err)
	}
	log.Printf("OTP providers registered: %v", registry.Keys())

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		ProfileRepo:      dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		VerificationRepo: verificationRepo,
		Registry:         registry,
		CodeAdapter:      codeAdapter,
		Mailer:           mailer,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
