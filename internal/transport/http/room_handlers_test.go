package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/core"
)

func TestGetRoster(t *testing.T) {
	ts := startTestServer(t, nil)

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	getRoster := func() RosterResponse {
		t.Helper()
		resp, err := ts.Client().Get(ts.URL + "/api/roster")
		if err != nil {
			t.Fatalf("roster request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("unexpected status: %d", resp.StatusCode)
		}
		var body RosterResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode roster: %v", err)
		}
		return body
	}

	if body := getRoster(); len(body.Names) != 0 || body.Capacity != core.RoomCapacity {
		t.Fatalf("unexpected empty roster: %+v", body)
	}

	joinAs(t, ctx, dial(t, ctx, ts), "Alice")

	body := getRoster()
	if len(body.Names) != 1 || body.Names[0] != "Alice" {
		t.Fatalf("unexpected roster: %+v", body)
	}
}

func TestGetRosterHubStopped(t *testing.T) {
	hub := core.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	disabledLogger := zerolog.New(nil)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/api/roster", NewRoomHandlers(hub, &disabledLogger).GetRoster)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/roster", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
