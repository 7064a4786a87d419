package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anzzxx/E-lern-backend/internal/domain"
	"github.com/anzzxx/E-lern-backend/internal/postgres"

	"github.com/go-chi/chi/v5"
)

type HistorySvc interface {
	History(ctx context.Context, roomID, after string, limit int) ([]domain.StoredMessage, string, error)
}

type NotifySvc interface {
	Push(userID int64, message string) bool
}

type Handler struct {
	history HistorySvc
	notify  NotifySvc
}

func NewHandler(history HistorySvc, notify NotifySvc) *Handler {
	return &Handler{history: history, notify: notify}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageItem struct {
	ID        string   `json:"id"`
	UserID    int64    `json:"user_id"`
	Username  string   `json:"username"`
	Text      string   `json:"text"`
	Mentions  []string `json:"mentions"`
	ReplyTo   *string  `json:"reply_to"`
	CreatedAt string   `json:"created_at"`
}

type HistoryResponse struct {
	Messages   []MessageItem `json:"messages"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type NotifyRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /rooms/{id}/messages?limit=&cursor=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	msgs, next, err := h.history.History(r.Context(), roomID, cursor, limit)
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.GetHistory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]MessageItem, 0, len(msgs))
	for _, m := range msgs {
		mentions := m.Mentions
		if mentions == nil {
			mentions = []string{}
		}
		items = append(items, MessageItem{
			ID:        m.ID,
			UserID:    m.UserID,
			Username:  m.Username,
			Text:      m.Text,
			Mentions:  mentions,
			ReplyTo:   m.ReplyTo,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Messages: items, NextCursor: next})
}

// POST /internal/notifications — push в личный канал; зовут другие сервисы
// платформы (платежи, ревью и т.п.).
func (h *Handler) PushNotification(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if req.UserID <= 0 || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user_id and message are required"})
		return
	}

	delivered := h.notify.Push(req.UserID, req.Message)
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": delivered})
}
