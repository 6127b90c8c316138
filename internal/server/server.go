package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type FiberServer struct {
	*fiber.App

	hub *Hub
}

func New() *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:  "casinoverse",
			AppName:       "casinoverse",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			IdleTimeout:   120 * time.Second,
			StrictRouting: false,
		}),

		hub: NewHub(),
	}

	// The recover middleware is the top-level catch-all: a panic in a
	// handler drops that request, never the process.
	server.App.Use(recover.New())
	server.App.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	go server.hub.Run()

	log.Println("[SERVER] Presence hub started")

	return server
}

// Shutdown stops the presence hub. Open sessions die with their
// connections; there is nothing to persist.
func (s *FiberServer) Shutdown() error {
	log.Println("[SERVER] Shutting down...")

	if s.hub != nil {
		s.hub.Stop()
	}

	return s.App.Shutdown()
}
