package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/business-service/internal/model"
	"github.com/menulink/menulink/services/business-service/internal/sessions"
	"github.com/menulink/menulink/services/business-service/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	pool       *db.Pool
	users      *storage.UserRepository
	businesses *storage.BusinessRepository
	store      *sessions.Store
	logger     *slog.Logger
}

func NewAuthHandler(pool *db.Pool, users *storage.UserRepository, businesses *storage.BusinessRepository, store *sessions.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		pool:       pool,
		users:      users,
		businesses: businesses,
		store:      store,
		logger:     logger,
	}
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token      string `json:"token"`
	TokenType  string `json:"token_type"`
	BusinessID string `json:"business_id"`
	Slug       string `json:"slug,omitempty"`
}

// Register serves POST /api/v1/auth/register: one user plus their business
// in a single transaction. The slug comes from the business name, uniquified
// with a random suffix when taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	if req.Email == "" || req.Password == "" || req.BusinessName == "" {
		writeError(w, http.StatusBadRequest, "email, password, and business_name required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	ctx := r.Context()
	slug, err := h.pickSlug(ctx, req.BusinessName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to derive slug")
		return
	}

	business := model.Business{
		ID:       uuid.NewString(),
		Name:     req.BusinessName,
		Slug:     slug,
		Timezone: "UTC",
		Hours:    map[string]string{},
	}
	user := model.User{
		ID:           uuid.NewString(),
		BusinessID:   business.ID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "owner",
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.businesses.CreateTx(ctx, tx, business); err != nil {
		if storage.IsConflict(err) {
			writeError(w, http.StatusConflict, "slug already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create business")
		return
	}
	if err := h.users.CreateTx(ctx, tx, user); err != nil {
		if storage.IsConflict(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}

	token, err := h.store.Create(ctx, sessions.Session{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Role:       user.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:      token,
		TokenType:  "Bearer",
		BusinessID: business.ID,
		Slug:       business.Slug,
	})
}

// Login serves POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to lookup user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.store.Create(r.Context(), sessions.Session{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Role:       user.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:      token,
		TokenType:  "Bearer",
		BusinessID: user.BusinessID,
	})
}

// Logout serves POST /api/v1/auth/logout, revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusBadRequest, "missing bearer token")
		return
	}
	if err := h.store.Revoke(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me serves GET /api/v1/auth/me behind RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":     sess.UserID,
		"business_id": sess.BusinessID,
		"role":        sess.Role,
	})
}

// pickSlug derives a slug from the business name, appending a random suffix
// while the candidate is taken.
func (h *AuthHandler) pickSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "business"
	}
	candidate := base
	for range 5 {
		taken, err := h.businesses.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + slugSuffix()
	}
	// Give up probing; the unique constraint is the final arbiter.
	return candidate, nil
}
