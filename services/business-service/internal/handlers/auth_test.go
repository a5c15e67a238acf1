package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestAuthHandler() *AuthHandler {
	return NewAuthHandler(nil, nil, nil, nil, slog.New(slog.DiscardHandler))
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad json", "{"},
		{"empty", `{}`},
		{"missing email", `{"password":"supersecret","business_name":"Cafe"}`},
		{"missing password", `{"email":"a@b.c","business_name":"Cafe"}`},
		{"missing business name", `{"email":"a@b.c","password":"supersecret"}`},
		{"short password", `{"email":"a@b.c","password":"short","business_name":"Cafe"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			newTestAuthHandler().Register(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	for _, body := range []string{"{", `{}`, `{"email":"a@b.c"}`, `{"password":"x"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestAuthHandler().Login(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: got %d, want 400", body, rec.Code)
		}
	}
}

func TestLogoutRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	newTestAuthHandler().Logout(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}
