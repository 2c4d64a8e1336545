package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_PostMessage(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	msg := Message{
		Text: "hello",
		Attachments: []Attachment{
			{Color: "good", Fields: []Field{{Title: "Status", Value: "Success", Short: true}}},
		},
	}

	if err := client.PostMessage(context.Background(), msg); err != nil {
		t.Fatalf("PostMessage failed: %v", err)
	}

	if received.Text != "hello" {
		t.Errorf("Expected text 'hello', got %s", received.Text)
	}

	if len(received.Attachments) != 1 || received.Attachments[0].Fields[0].Value != "Success" {
		t.Errorf("Unexpected attachments: %+v", received.Attachments)
	}
}

func TestClient_PostMessage_IgnoresResponseStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	if err := client.PostMessage(context.Background(), Message{Text: "hello"}); err != nil {
		t.Errorf("Expected non-2xx responses to be ignored, got %v", err)
	}
}

func TestClient_PostMessage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)

	if err := client.PostMessage(context.Background(), Message{Text: "hello"}); err == nil {
		t.Error("Expected an error when the webhook is unreachable")
	}
}

func TestClient_PostMessage_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	client.PostMessage(context.Background(), Message{Text: "hello"})

	if calls != 1 {
		t.Errorf("Expected exactly one request, got %d", calls)
	}
}
