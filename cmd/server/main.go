// Command server runs the HTTP front door: gin.Default() plus graceful
// shutdown on SIGINT/SIGTERM, with an optional SQLite-backed result cache.
//
// Configuration loads from the environment, then the command wires a
// gin.Engine, registers routes, and shuts the HTTP server down on a signal
// with a bounded context timeout.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kprice/nonogram/internal/httpapi"
	"github.com/kprice/nonogram/internal/store"
)

func main() {
	port := getEnv("PORT", "8080")
	dbPath := getEnv("NONOGRAM_CACHE_DB", "")

	srv := &httpapi.Server{}
	if dbPath != "" {
		cache, err := store.Open(dbPath)
		if err != nil {
			log.Fatalf("opening result cache at %s: %v", dbPath, err)
		}
		defer cache.Close()
		srv.Cache = cache
		log.Printf("result cache enabled at %s", dbPath)
	}

	r := gin.Default()
	srv.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("starting server on port %s", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
