package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flpayroll/internal/auth"
	"flpayroll/internal/transport/http/api"
	"flpayroll/internal/transport/http/middleware"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	DB        *pgxpool.Pool
	JWTSecret string
}

func New(db *pgxpool.Pool, jwtSecret string) *Handler {
	return &Handler{DB: db, JWTSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.With(middleware.RequireAuth).Get("/auth/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", reqID)
		return
	}
	if req.Email == "" || req.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "email and password are required", reqID)
		return
	}

	var userID, passwordHash, role string
	err := h.DB.QueryRow(r.Context(),
		"SELECT id, password_hash, role FROM users WHERE email = $1", req.Email,
	).Scan(&userID, &passwordHash, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err != nil {
		slog.Error("login lookup failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}

	if err := auth.CheckPassword(passwordHash, req.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{UserID: userID, Email: req.Email, Role: role}, tokenTTL)
	if err != nil {
		slog.Error("token generation failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}

	api.Success(w, loginResponse{Token: token, Email: req.Email, Role: role}, reqID)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, user, reqID)
}
