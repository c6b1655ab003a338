package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/tdh/emily/internal/router"
)

type fakeProcessor struct{}

func (fakeProcessor) HandleMessage(_ context.Context, msg router.Message) (router.Response, error) {
	return router.Response{Text: "echo: " + msg.Text}, nil
}

func TestStatusEndpoint(t *testing.T) {
	server := NewServer(fakeProcessor{})
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "\"ok\":true") {
		t.Fatalf("unexpected status payload: %s", rr.Body.String())
	}
}

func TestChatEndpoint(t *testing.T) {
	server := NewServer(fakeProcessor{})
	handler := server.Handler()

	payload := map[string]string{
		"session_id": "s1",
		"user_id":    "u1",
		"text":       "hello",
	}
	data, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "echo: hello") {
		t.Fatalf("unexpected chat response: %s", rr.Body.String())
	}
}

func TestWebsocketChat(t *testing.T) {
	server := NewServer(fakeProcessor{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"text": "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Text != "echo: ping" {
		t.Fatalf("reply = %q, want %q", out.Text, "echo: ping")
	}
}
