package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/pkg/jwt"
	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

func waitForConnections(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connections, got %d", n, h.ConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubDeliversOnlyToOwner(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	owner := &Connection{UserID: "u1", Send: make(chan []byte, 1)}
	other := &Connection{UserID: "u2", Send: make(chan []byte, 1)}
	hub.Register(owner)
	hub.Register(other)
	waitForConnections(t, hub, 2)

	hub.EarningAdded(context.Background(),
		earning.Earning{ID: "earning_1_abc", UserID: "u1", Amount: decimal.RequireFromString("0.5"), Status: earning.StatusCompleted},
		earning.Balance{UserID: "u1", AvailableBalance: decimal.RequireFromString("0.5"), TotalEarnings: decimal.RequireFromString("0.5")},
	)

	select {
	case msg := <-owner.Send:
		var event struct {
			Type EventType     `json:"type"`
			Data BalanceUpdate `json:"data"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.Type != EventBalanceUpdated || event.Data.Earning.ID != "earning_1_abc" || !event.Data.Balance.AvailableBalance.Equal(decimal.RequireFromString("0.5")) {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("owner did not receive the event")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("other user must not receive events: %s", msg)
	default:
	}

	hub.Unregister(owner)
	waitForConnections(t, hub, 1)
}

func TestHubIgnoresOwnRedisEcho(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "instance-a")
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{UserID: "u1", Send: make(chan []byte, 2)}
	hub.Register(conn)
	waitForConnections(t, hub, 1)

	hub.handleUserEventPayload(`{"user_id":"u1","payload":{"type":"balance_updated"},"sender_instance_id":"instance-a"}`)
	hub.handleUserEventPayload(`{"user_id":"u1","payload":{"type":"balance_updated"},"sender_instance_id":"instance-b"}`)

	if len(conn.Send) != 1 {
		t.Fatalf("expected only the foreign event to be delivered, got %d", len(conn.Send))
	}
}

func TestWebSocketReceivesBalanceAfterEarning(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	jwtService := jwt.NewService("secret", time.Minute)
	ledger := earning.NewService(earning.NewKVRepository(kv.NewMemoryStore(), false), earning.WithNotifier(hub))

	server := httptest.NewServer(http.HandlerFunc(NewHandler(hub, jwtService, nil).WebSocket))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	if _, resp, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %v", err)
	}

	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "ada@example.com")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForConnections(t, hub, 1)

	if _, err := ledger.AddEarning(context.Background(), earning.NewEarning{
		UserID: userID.String(),
		AppID:  "7212",
		Amount: decimal.RequireFromString("1.25"),
		Status: earning.StatusCompleted,
	}); err != nil {
		t.Fatalf("add earning: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event struct {
		Type EventType     `json:"type"`
		Data BalanceUpdate `json:"data"`
	}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Type != EventBalanceUpdated || !event.Data.Balance.AvailableBalance.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("unexpected event: %+v", event)
	}
}
