package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anzzxx/E-lern-backend/internal/domain"
	"github.com/anzzxx/E-lern-backend/internal/metrics"
	"github.com/anzzxx/E-lern-backend/internal/room"
	"github.com/anzzxx/E-lern-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const historyReplayLimit = 50

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

type CommentSvc interface {
	Post(ctx context.Context, roomID string, sender domain.Identity, in service.CommentInput) (*service.CommentEvent, error)
	Recent(ctx context.Context, roomID string, limit int) ([]service.CommentEvent, error)
}

type Server struct {
	upgrader websocket.Upgrader

	registry *room.Registry
	bc       *room.Broadcaster
	router   *room.Router
	verifier TokenVerifier
	comments CommentSvc
}

func NewServer(reg *room.Registry, bc *room.Broadcaster, router *room.Router, verifier TokenVerifier, comments CommentSvc) *Server {
	return &Server{
		registry: reg,
		bc:       bc,
		router:   router,
		verifier: verifier,
		comments: comments,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WS endpoint: GET /ws/meetings/{id}?token=...
func (s *Server) HandleMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")
	s.serve(w, r, func(domain.Identity) (string, error) {
		if meetingID == "" {
			return "", domain.ErrMissingRoom
		}
		return room.MeetingKey(meetingID), nil
	}, s.meetingLoop)
}

// WS endpoint: GET /ws/comments/{id}?token=...
func (s *Server) HandleComments(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")
	s.serve(w, r, func(domain.Identity) (string, error) {
		if lessonID == "" {
			return "", domain.ErrMissingRoom
		}
		return room.CommentsKey(lessonID), nil
	}, s.commentLoop)
}

// WS endpoint: GET /ws/notifications?token=...
// Личный канал: ключ комнаты выводится из личности после аутентификации.
func (s *Server) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(ident domain.Identity) (string, error) {
		return room.UserKey(ident.UserID), nil
	}, s.notifyLoop)
}

// serve — общий хендшейк. Аутентификация происходит после апгрейда, чтобы
// клиент получил прикладной код закрытия, а не голый HTTP-отказ.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, roomKey func(domain.Identity) (string, error), loop func(context.Context, *room.Session, *wsConn)) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	c := newWsConn(conn)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("ws handler panic", "panic", rec)
			_ = c.Close(room.CloseInternal, "internal error")
		}
	}()

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	ident, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, domain.ErrNoToken) {
			reason = "no token provided"
		}
		slog.Warn("ws auth failed", "err", err)
		_ = c.Close(room.CloseUnauthorized, reason)
		return
	}

	key, err := roomKey(ident)
	if err != nil {
		_ = c.Close(room.CloseMissingRoom, "missing room id")
		return
	}

	sess := room.NewSession(c, ident)
	sess.Join(s.registry, s.bc, key)

	metrics.ActiveConnections.Inc()
	slog.Info("ws connected", "room", key, "session", sess.ID, "user", ident.UserID)

	loop(r.Context(), sess, c)

	sess.Disconnect(s.registry, s.bc)
	metrics.ActiveConnections.Dec()
	slog.Info("ws disconnected", "room", key, "session", sess.ID, "user", ident.UserID)
}

// meetingLoop — сигналинг встречи: конверты уходят в Router, мусор молча
// отбрасывается, соединение не рвём.
func (s *Server) meetingLoop(_ context.Context, sess *room.Session, c *wsConn) {
	c.conn.SetReadLimit(1 << 20)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env room.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		s.router.Route(sess, env)
	}
}

// commentLoop: сперва replay последних сообщений только новой сессии,
// дальше — приём и рассылка живых.
func (s *Server) commentLoop(ctx context.Context, sess *room.Session, c *wsConn) {
	recent, err := s.comments.Recent(ctx, sess.RoomID, historyReplayLimit)
	if err != nil {
		slog.Warn("comment history replay failed", "room", sess.RoomID, "err", err)
	}
	for i := range recent {
		if err := c.Send(recent[i]); err != nil {
			break
		}
	}

	c.conn.SetReadLimit(1 << 20)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var in service.CommentInput
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}

		ev, err := s.comments.Post(ctx, sess.RoomID, sess.Identity, in)
		if err != nil {
			if !errors.Is(err, service.ErrEmptyMessage) {
				slog.Warn("comment post failed", "room", sess.RoomID, "user", sess.Identity.UserID, "err", err)
			}
			continue
		}
		if rm := sess.Room(); rm != nil {
			s.bc.Broadcast(rm, ev)
		}
	}
}

// notifyLoop — канал только на выдачу; входящие читаем, чтобы заметить
// закрытие, и отбрасываем.
func (s *Server) notifyLoop(_ context.Context, _ *room.Session, c *wsConn) {
	c.conn.SetReadLimit(1 << 16)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
