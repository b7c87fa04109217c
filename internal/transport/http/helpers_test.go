package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/config"
	"github.com/vovakirdan/pairchat-server/internal/core"
	"github.com/vovakirdan/pairchat-server/internal/proto"
)

// frame is an outbound message with its data left raw.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	hub := core.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.New(nil)
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	server := NewServer(hub, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	inbound := proto.Inbound{Type: typ}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s: %v", typ, err)
		}
		inbound.Data = payload
	}
	if err := wsjson.Write(ctx, conn, inbound); err != nil {
		t.Fatalf("send %s: %v", typ, err)
	}
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) frame {
	t.Helper()

	var f frame
	if err := wsjson.Read(ctx, conn, &f); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return f
}

// expectEvent reads frames until one carries the named event.
func expectEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, into any) {
	t.Helper()

	for {
		f := readFrame(t, ctx, conn)
		if f.Type != proto.OutboundTypeEvent || f.Event != event {
			continue
		}
		if into != nil {
			if err := json.Unmarshal(f.Data, into); err != nil {
				t.Fatalf("unmarshal %s: %v", event, err)
			}
		}
		return
	}
}

// expectError reads frames until an error frame arrives.
func expectError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()

	for {
		f := readFrame(t, ctx, conn)
		if f.Type == proto.OutboundTypeError {
			if f.Error == nil {
				t.Fatalf("error frame without error body")
			}
			return f.Error
		}
	}
}

// joinAs sends a join and waits for the welcome notice.
func joinAs(t *testing.T, ctx context.Context, conn *websocket.Conn, name string) {
	t.Helper()

	send(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{DisplayName: name})
	var welcome proto.EventSystem
	expectEvent(t, ctx, conn, proto.EventSystemMessage, &welcome)
	if welcome.Text != "Welcome, "+name+"!" {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
}
