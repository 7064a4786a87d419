package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anzzxx/E-lern-backend/internal/domain"
)

var ErrEmptyMessage = errors.New("empty message")

// MessageStore — внешнее хранилище сообщений (спецификация: append/recent,
// Get нужен для резолва reply-ссылок).
type MessageStore interface {
	Append(ctx context.Context, m *domain.StoredMessage) error
	Recent(ctx context.Context, roomID string, limit int) ([]domain.StoredMessage, error)
	Get(ctx context.Context, id string) (*domain.StoredMessage, error)
}

// UserDirectory — проверка @упоминаний по справочнику пользователей.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// CommentEvent — обогащённое сообщение, уходящее в комнату и в replay
// истории при подключении.
type CommentEvent struct {
	ID              string   `json:"id"`
	Message         string   `json:"message"`
	Username        string   `json:"username"`
	Avatar          string   `json:"avatar"`
	Mentions        []string `json:"mentions"`
	ReplyTo         *string  `json:"replyTo"`
	ReplyToUsername *string  `json:"replyToUsername"`
	ReplyToMessage  *string  `json:"replyToMessage"`
	CreatedAt       string   `json:"created_at"`
}

type CommentInput struct {
	Message string  `json:"message"`
	ReplyTo *string `json:"replyTo"`
	// Поля replyToUsername/replyToMessage клиент присылает для отрисовки,
	// но сервер берёт их из сохранённого сообщения, если ссылка резолвится.
	ReplyToUsername *string `json:"replyToUsername"`
	ReplyToMessage  *string `json:"replyToMessage"`
}

type CommentService struct {
	store MessageStore
	users UserDirectory
}

func NewCommentService(store MessageStore, users UserDirectory) *CommentService {
	return &CommentService{store: store, users: users}
}

// Post извлекает упоминания, резолвит reply-ссылку, сохраняет сообщение и
// возвращает событие для рассылки. Нерезолвящийся replyTo не валит отправку —
// reply-поля просто обнуляются.
func (s *CommentService) Post(ctx context.Context, roomID string, sender domain.Identity, in CommentInput) (*CommentEvent, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	mentions := s.extractMentions(ctx, text)

	var replyTo, replyToUsername, replyToMessage *string
	if in.ReplyTo != nil && *in.ReplyTo != "" {
		ref, err := s.store.Get(ctx, *in.ReplyTo)
		switch {
		case err == nil:
			replyTo = in.ReplyTo
			replyToUsername = &ref.Username
			replyToMessage = &ref.Text
		case errors.Is(err, domain.ErrMessageNotFound):
			slog.Warn("reply target not found", "room", roomID, "reply_to", *in.ReplyTo)
		default:
			return nil, err
		}
	}

	msg := &domain.StoredMessage{
		RoomID:   roomID,
		UserID:   sender.UserID,
		Username: sender.Username,
		Avatar:   sender.Avatar,
		Text:     text,
		Mentions: mentions,
		ReplyTo:  replyTo,
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, err
	}

	return &CommentEvent{
		ID:              msg.ID,
		Message:         text,
		Username:        sender.Username,
		Avatar:          sender.Avatar,
		Mentions:        mentions,
		ReplyTo:         replyTo,
		ReplyToUsername: replyToUsername,
		ReplyToMessage:  replyToMessage,
		CreatedAt:       msg.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Recent отдаёт последние сообщения комнаты как готовые события —
// новый участник получает их до живого потока.
func (s *CommentService) Recent(ctx context.Context, roomID string, limit int) ([]CommentEvent, error) {
	msgs, err := s.store.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CommentEvent, 0, len(msgs))
	for i := range msgs {
		out = append(out, s.toEvent(ctx, &msgs[i]))
	}
	return out, nil
}

func (s *CommentService) toEvent(ctx context.Context, m *domain.StoredMessage) CommentEvent {
	ev := CommentEvent{
		ID:        m.ID,
		Message:   m.Text,
		Username:  m.Username,
		Avatar:    m.Avatar,
		Mentions:  m.Mentions,
		ReplyTo:   m.ReplyTo,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if ev.Mentions == nil {
		ev.Mentions = []string{}
	}
	if m.ReplyTo != nil {
		if ref, err := s.store.Get(ctx, *m.ReplyTo); err == nil {
			ev.ReplyToUsername = &ref.Username
			ev.ReplyToMessage = &ref.Text
		} else {
			ev.ReplyTo = nil
		}
	}
	return ev
}

// extractMentions — токены вида @username длиной > 1, существующие в
// справочнике. Ошибка справочника трактуется как "не существует".
func (s *CommentService) extractMentions(ctx context.Context, text string) []string {
	mentions := []string{}
	for _, word := range strings.Fields(text) {
		if !strings.HasPrefix(word, "@") || len(word) < 2 {
			continue
		}
		username := word[1:]
		ok, err := s.users.Exists(ctx, username)
		if err != nil {
			slog.Warn("mention lookup failed", "username", username, "err", err)
			continue
		}
		if ok {
			mentions = append(mentions, username)
		}
	}
	return mentions
}
