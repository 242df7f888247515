package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"songqueue-service/internal/config"
	"songqueue-service/internal/profanity"
	"songqueue-service/internal/provider"
	"songqueue-service/internal/songqueue"
)

func main() {
	cfg := config.Load()

	adminKey := cfg.AdminPassword
	if adminKey == "" {
		adminKey = generateAdminKey()
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("songqueue-service: redis: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	state := songqueue.NewState()
	markers := songqueue.NewVoteMarkers(rdb)
	resolver := provider.NewClient(cfg.YouTubeAPIKey)
	checker := profanity.NewChecker()

	srv := songqueue.NewServer(state, markers, resolver, checker, adminKey)

	router := srv.Router(
		songqueue.RequestLogMiddleware,
		songqueue.CORSMiddleware(cfg.CORSAllowedOrigin),
		songqueue.BodySizeLimitMiddleware(64<<10),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.AutoAdvance {
		srv.StartTicker(ctx)
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("songqueue-service: listening on %s", server.Addr)
		log.Printf("songqueue-service: admin key: %s", adminKey)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("songqueue-service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("songqueue-service: shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("songqueue-service: forced shutdown: %v", err)
	}
}

// generateAdminKey mints the 8-hex-char shared secret printed at startup.
func generateAdminKey() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("songqueue-service: admin key: %v", err)
	}
	return hex.EncodeToString(buf)
}
