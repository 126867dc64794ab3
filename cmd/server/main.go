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

	"studyhall-backend/internal/config"
	"studyhall-backend/internal/handlers"
	"studyhall-backend/internal/middleware"
	"studyhall-backend/internal/router"
	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

func main() {
	log.Println("🚀 Starting Studyhall Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Start Session Registry ────
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	registry := store.NewRegistry(sessionTTL)
	defer registry.Stop()
	log.Printf("✓ Session registry started (TTL %s)", sessionTTL)

	// ──── Step 3: Initialize Gemini Client ────
	llm, err := services.NewLLMService(
		cfg.GeminiAPIKey,
		cfg.GeminiConcurrentReqs,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer llm.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret)
	generator := services.NewGenerator(llm)
	grader := services.NewGrader(llm)
	progress := services.NewProgressService()
	exporter := services.NewExportService()
	reports := services.NewReportService(progress)
	fileExtract := services.NewFileExtractService()

	// ──── Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(registry, sessionAuth, sessionTTL)
	noteHandler := handlers.NewNoteHandler(registry, generator, exporter)
	flashcardHandler := handlers.NewFlashcardHandler(registry, generator, exporter)
	quizHandler := handlers.NewQuizHandler(registry, generator, grader)
	progressHandler := handlers.NewProgressHandler(registry, progress)
	reportHandler := handlers.NewReportHandler(registry, reports)
	transferHandler := handlers.NewTransferHandler(registry, exporter)
	contentHandler := handlers.NewContentHandler(fileExtract, cfg.MaxUploadBytes)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(
		sessionAuth,
		sessionHandler,
		noteHandler,
		flashcardHandler,
		quizHandler,
		progressHandler,
		reportHandler,
		transferHandler,
		contentHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		registry.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Studyhall Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
