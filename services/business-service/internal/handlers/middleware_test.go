package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/menulink/menulink/services/business-service/internal/sessions"
)

type stubSessionStore struct {
	sess  sessions.Session
	valid bool
}

func (s *stubSessionStore) Get(ctx context.Context, raw string) (sessions.Session, error) {
	if !s.valid {
		return sessions.Session{}, sessions.ErrNotFound
	}
	return s.sess, nil
}

func TestRequireSessionRejectsMissingToken(t *testing.T) {
	called := false
	h := RequireSession(&stubSessionStore{valid: true}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, header := range []string{"", "Bearer ", "Basic abc", "token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/business", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: got %d, want 401", header, rec.Code)
		}
	}
	if called {
		t.Fatal("handler ran without a valid session")
	}
}

func TestRequireSessionRejectsUnknownToken(t *testing.T) {
	h := RequireSession(&stubSessionStore{valid: false}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler ran with an invalid session")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/business", nil)
	req.Header.Set("Authorization", "Bearer deadbeef")
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestRequireSessionPassesScope(t *testing.T) {
	store := &stubSessionStore{
		valid: true,
		sess:  sessions.Session{UserID: "u1", BusinessID: "b1", Role: "owner"},
	}
	var got sessions.Session
	h := RequireSession(store, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r)
		if !ok {
			t.Fatal("session missing from context")
		}
		got = sess
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/business", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if got.BusinessID != "b1" || got.UserID != "u1" || got.Role != "owner" {
		t.Fatalf("session = %+v, want u1/b1/owner", got)
	}
}
