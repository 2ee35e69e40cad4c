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

	"converso-backend/internal/config"
	"converso-backend/internal/handlers"
	"converso-backend/internal/router"
	"converso-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Converso Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Groq Client ────
	groqService := services.NewGroqService(
		cfg.GroqAPIKey,
		cfg.GroqModel,
		time.Duration(cfg.GroqTimeoutSeconds)*time.Second,
	)
	log.Printf("✓ Groq client initialized (model: %s)", cfg.GroqModel)

	// ──── Initialize Handlers ────
	healthHandler := handlers.NewHealthHandler()
	chatHandler := handlers.NewChatHandler(groqService)
	staticHandler := handlers.NewStaticHandler(cfg.StaticDir)

	// ──── Step 3: Start HTTP Server ────
	r := router.New(healthHandler, chatHandler, staticHandler)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(shutdownDone)
	}()

	log.Printf("✓ Converso Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	// ListenAndServe returns as soon as Shutdown begins; wait for in-flight
	// requests to drain before exiting.
	<-shutdownDone
}
