package server

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/gofiber/contrib/websocket"

	"casinoverse/internal/game"
	"casinoverse/internal/ledger"
	"casinoverse/internal/session"
)

func (s *FiberServer) RegisterFiberRoutes() {
	// Apply CORS middleware
	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Accept,Authorization,Content-Type",
		AllowCredentials: false, // credentials require explicit origins
		MaxAge:           300,
	}))

	// Basic routes
	s.App.Get("/health", s.healthHandler)

	api := s.App.Group("/api/v1")

	api.Get("/session/info", s.sessionInfoHandler)
	api.Get("/presence", s.presenceHandler)

	// WebSocket route
	s.App.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.App.Get("/ws", websocket.New(s.sessionWebSocketHandler))
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "ok",
		"connected_clients": s.hub.GetClientCount(),
	})
}

// sessionInfoHandler describes what a fresh session looks like, so the
// render layer can draw the lobby before its websocket is up.
func (s *FiberServer) sessionInfoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"starting_balance": ledger.StartingBalance,
		"games":            []game.Kind{game.KindSlot, game.KindPlinko, game.KindCoinFlip, game.KindRoulette},
		"chip_values":      game.ChipValues,
		"coin_flip_bets":   []int{game.CoinFlipBetLow, game.CoinFlipBetHigh},
	})
}

func (s *FiberServer) presenceHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"online_players": s.hub.OnlinePlayers(),
	})
}

// inbound is the envelope the render layer sends over the websocket.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// sessionWebSocketHandler owns one tab's lifecycle: a fresh session on
// connect, every inbound event routed into it, and a full teardown on
// disconnect. Nothing survives the connection.
func (s *FiberServer) sessionWebSocketHandler(conn *websocket.Conn) {
	// A render layer without pointer lock support announces the orbit
	// fallback up front; the choice is fixed for the session.
	orbit := conn.Query("orbit") == "1"

	client := &Client{conn: conn}
	sess := session.New(func(msg game.Message) { client.Send(msg) }, session.Config{OrbitMode: orbit})
	client.sessionID = sess.ID()

	s.hub.RegisterClient(client)
	defer func() {
		sess.Close()
		s.hub.UnregisterClient(client)
	}()

	log.Printf("[WS] New session: %s (orbit=%v)", sess.ID(), orbit)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] Read error for session %s: %v", sess.ID(), err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "select_target":
			var data struct {
				Target string `json:"target"`
			}
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			sess.SelectTarget(data.Target)

		case "close":
			sess.CloseSurface()

		case "key":
			var data struct {
				Key string `json:"key"`
			}
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			sess.HandleKey(data.Key)

		case "request_lock":
			sess.RequestLock()

		case "pointer_lock":
			var data struct {
				Locked bool `json:"locked"`
			}
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			sess.PointerLockChanged(data.Locked)

		case "game_action":
			s.handleGameAction(sess, client, msg.Data)

		case "ping":
			client.Send(map[string]string{"type": "pong"})
		}
	}
}

// handleGameAction decodes the per-action request payload and routes it
// into the session. A malformed payload gets an error message back; a
// swallowed action (nothing open) gets nothing.
func (s *FiberServer) handleGameAction(sess *session.Session, client *Client, data json.RawMessage) {
	var envelope struct {
		Action  string          `json:"action"`
		Request json.RawMessage `json:"request"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return
	}

	req, err := decodeActionRequest(envelope.Action, envelope.Request)
	if err == nil {
		var resp any
		resp, err = sess.GameAction(envelope.Action, req)
		if err == nil {
			if resp != nil {
				client.Send(game.Message{Type: "action_result", Data: resp})
			}
			return
		}
	}

	log.Printf("[WS] Bad game action %q for session %s: %v", envelope.Action, sess.ID(), err)
	client.Send(game.Message{Type: "error", Data: map[string]any{
		"action":  envelope.Action,
		"message": err.Error(),
	}})
}

// decodeActionRequest maps an action to its typed request. Actions with
// no payload decode to nil.
func decodeActionRequest(action string, raw json.RawMessage) (any, error) {
	switch action {
	case game.ActionChoose:
		var req game.CoinChoiceRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return req, nil
	case game.ActionSetBet:
		var req game.CoinBetRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return req, nil
	case game.ActionPlaceBet:
		var req game.RouletteBetRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return req, nil
	case game.ActionSetChip:
		var req game.RouletteChipRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, nil
	}
}
