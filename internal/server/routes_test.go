package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"casinoverse/internal/game"
)

func newTestServer(t *testing.T) *FiberServer {
	t.Helper()
	s := New()
	s.RegisterFiberRoutes()
	t.Cleanup(func() { s.hub.Stop() })
	return s
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatalf("could not create request: %v", err)
	}

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("could not perform request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read response body: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("could not unmarshal response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status to be 'ok'; got %v", result["status"])
	}
}

func TestSessionInfoHandler(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest("GET", "/api/v1/session/info", nil)
	if err != nil {
		t.Fatalf("could not create request: %v", err)
	}

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("could not perform request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read response body: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("could not unmarshal response: %v", err)
	}

	if result["starting_balance"] != float64(100) {
		t.Errorf("expected starting balance 100; got %v", result["starting_balance"])
	}

	games, ok := result["games"].([]interface{})
	if !ok || len(games) != 4 {
		t.Errorf("expected four games; got %v", result["games"])
	}
}

func TestPresenceHandler(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest("GET", "/api/v1/presence", nil)
	if err != nil {
		t.Fatalf("could not create request: %v", err)
	}

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("could not perform request: %v", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read response body: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("could not unmarshal response: %v", err)
	}

	count, ok := result["online_players"].(float64)
	if !ok || count < 12 {
		t.Errorf("expected a padded player count; got %v", result["online_players"])
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest("GET", "/ws", nil)
	if err != nil {
		t.Fatalf("could not create request: %v", err)
	}

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("could not perform request: %v", err)
	}

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("plain GET should demand an upgrade; got %v", resp.Status)
	}
}

func TestDecodeActionRequest(t *testing.T) {
	t.Run("roulette bet", func(t *testing.T) {
		req, err := decodeActionRequest(game.ActionPlaceBet, json.RawMessage(`{"target":17}`))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		bet, ok := req.(game.RouletteBetRequest)
		if !ok || bet.Target != 17 {
			t.Errorf("expected a bet on 17, got %#v", req)
		}
	})

	t.Run("coin choice", func(t *testing.T) {
		req, err := decodeActionRequest(game.ActionChoose, json.RawMessage(`{"side":"HEADS"}`))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		choice, ok := req.(game.CoinChoiceRequest)
		if !ok || choice.Side != game.Heads {
			t.Errorf("expected a heads choice, got %#v", req)
		}
	})

	t.Run("payload-free actions decode to nil", func(t *testing.T) {
		req, err := decodeActionRequest(game.ActionSpin, nil)
		if err != nil || req != nil {
			t.Errorf("spin carries no payload, got %#v, %v", req, err)
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		if _, err := decodeActionRequest(game.ActionChoose, json.RawMessage(`{`)); err == nil {
			t.Error("truncated payload should fail to decode")
		}
	})
}
