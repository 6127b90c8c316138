package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"casinoverse/internal/server"
)

func gracefulShutdown(fiberServer *server.FiberServer, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("[MAIN] Shutting down gracefully, press Ctrl+C again to force")

	if err := fiberServer.Shutdown(); err != nil {
		log.Printf("[MAIN] Server forced to shutdown: %v", err)
	}

	done <- true
}

func main() {
	s := server.New()
	s.RegisterFiberRoutes()

	done := make(chan bool, 1)

	go func() {
		port := getEnv("PORT", "8080")
		if err := s.Listen(fmt.Sprintf(":%s", port)); err != nil {
			log.Fatalf("[MAIN] Listen error: %v", err)
		}
	}()

	go gracefulShutdown(s, done)

	<-done
	log.Println("[MAIN] Graceful shutdown complete")
}

func getEnv(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}
