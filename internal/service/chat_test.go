package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/swiperight/swiperight-system/internal/chat"
)

func TestChat_FallbackWithoutClient(t *testing.T) {
	svc := newTestService(&stubRepo{})

	reply := svc.Chat(context.Background(), "which card for gas?")
	if reply != chatUnavailableReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestChat_FallbackOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	svc := NewService(&stubRepo{}, nil, chat.NewClient(ts.URL, "key"), nil)

	reply := svc.Chat(context.Background(), "which card for gas?")
	if reply != chatUnavailableReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestChat_EmptyModelReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"choices":[]}`)); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer ts.Close()

	svc := NewService(&stubRepo{}, nil, chat.NewClient(ts.URL, "key"), nil)

	reply := svc.Chat(context.Background(), "hello")
	if reply != chatEmptyReply {
		t.Fatalf("reply = %q, want empty-reply fallback", reply)
	}
}

func TestChat_ReturnsModelReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"choices":[{"message":{"content":"Use the 5% card."}}]}`)); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer ts.Close()

	svc := NewService(&stubRepo{}, nil, chat.NewClient(ts.URL, "key"), nil)

	reply := svc.Chat(context.Background(), "which card?")
	if reply != "Use the 5% card." {
		t.Fatalf("reply = %q, want model reply", reply)
	}
}
