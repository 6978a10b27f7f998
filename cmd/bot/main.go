// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/maple-advisory/crm-backend/internal/bot"
	"github.com/maple-advisory/crm-backend/internal/config"
	"github.com/maple-advisory/crm-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.TelegramToken == "" {
		log.Fatal("❌ TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.BotAPISecret == "" {
		log.Fatal("❌ BOT_API_SECRET is required")
	}

	// ============================================
	// Session store: Redis when available, memory otherwise
	// ============================================
	var store bot.SessionStore
	if cfg.RedisURL != "" {
		redisDB, err := db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (falling back to in-memory sessions)", err)
			store = bot.NewMemorySessionStore()
		} else {
			defer redisDB.Close()
			store = bot.NewRedisSessionStore(redisDB.Client)
			log.Println("⚡ Redis session store enabled")
		}
	} else {
		store = bot.NewMemorySessionStore()
		log.Println("⚠️  REDIS_URL not set, sessions are in-memory only")
	}

	// ============================================
	// CRM API client and Telegram bot
	// ============================================
	apiClient := bot.NewAPIClient(cfg.BotAPIBaseURL, cfg.BotAPISecret)
	flow := bot.NewFlow(store, apiClient)

	b, err := bot.New(cfg.TelegramToken, flow)
	if err != nil {
		log.Fatalf("❌ Failed to start Telegram bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go b.Run(ctx)
	log.Println("🤖 Bot update loop started")

	// ============================================
	// Health endpoint
	// ============================================
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.BotHealthPort,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("🚀 Health server listening on port %s", cfg.BotHealthPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start health server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down bot...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Health server forced to shutdown: %v", err)
	}

	log.Println("Bot exited")
}
