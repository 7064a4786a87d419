package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anzzxx/E-lern-backend/internal/domain"
)

type fakeStore struct {
	byID   map[string]*domain.StoredMessage
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*domain.StoredMessage)}
}

func (s *fakeStore) Append(_ context.Context, m *domain.StoredMessage) error {
	s.nextID++
	m.ID = fmt.Sprintf("m%d", s.nextID)
	m.CreatedAt = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *fakeStore) Recent(_ context.Context, roomID string, limit int) ([]domain.StoredMessage, error) {
	var out []domain.StoredMessage
	for i := 1; i <= s.nextID && len(out) < limit; i++ {
		if m, ok := s.byID[fmt.Sprintf("m%d", i)]; ok && m.RoomID == roomID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.StoredMessage, error) {
	if m, ok := s.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, domain.ErrMessageNotFound
}

type fakeDirectory map[string]bool

func (d fakeDirectory) Exists(_ context.Context, username string) (bool, error) {
	return d[username], nil
}

func TestPostExtractsOnlyExistingMentions(t *testing.T) {
	svc := NewCommentService(newFakeStore(), fakeDirectory{"alice": true})

	ev, err := svc.Post(context.Background(), "comments:1", domain.Identity{UserID: 5, Username: "dave"},
		CommentInput{Message: "hi @alice and @bob"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if len(ev.Mentions) != 1 || ev.Mentions[0] != "alice" {
		t.Fatalf("mentions = %v, want [alice]", ev.Mentions)
	}
}

func TestPostEmptyMessageRejected(t *testing.T) {
	svc := NewCommentService(newFakeStore(), fakeDirectory{})

	if _, err := svc.Post(context.Background(), "comments:1", domain.Identity{UserID: 5}, CommentInput{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestPostResolvesReply(t *testing.T) {
	store := newFakeStore()
	svc := NewCommentService(store, fakeDirectory{})
	sender := domain.Identity{UserID: 5, Username: "dave"}

	first, err := svc.Post(context.Background(), "comments:1", sender, CommentInput{Message: "original"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	reply, err := svc.Post(context.Background(), "comments:1", domain.Identity{UserID: 6, Username: "erin"},
		CommentInput{Message: "answer", ReplyTo: &first.ID})
	if err != nil {
		t.Fatalf("post reply: %v", err)
	}
	if reply.ReplyTo == nil || *reply.ReplyTo != first.ID {
		t.Fatalf("replyTo = %v, want %q", reply.ReplyTo, first.ID)
	}
	if reply.ReplyToUsername == nil || *reply.ReplyToUsername != "dave" {
		t.Fatalf("replyToUsername = %v, want dave", reply.ReplyToUsername)
	}
	if reply.ReplyToMessage == nil || *reply.ReplyToMessage != "original" {
		t.Fatalf("replyToMessage = %v, want original", reply.ReplyToMessage)
	}
}

// Нерезолвящийся replyTo не валит отправку: reply-поля обнуляются.
func TestPostUnresolvedReplyNullsFields(t *testing.T) {
	svc := NewCommentService(newFakeStore(), fakeDirectory{})
	ghost := "no-such-id"

	ev, err := svc.Post(context.Background(), "comments:1", domain.Identity{UserID: 5, Username: "dave"},
		CommentInput{Message: "answer", ReplyTo: &ghost})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if ev.ReplyTo != nil || ev.ReplyToUsername != nil || ev.ReplyToMessage != nil {
		t.Fatalf("reply fields must be null, got %+v", ev)
	}
}

func TestRecentReturnsEventsOldestFirst(t *testing.T) {
	store := newFakeStore()
	svc := NewCommentService(store, fakeDirectory{})
	sender := domain.Identity{UserID: 5, Username: "dave"}

	for _, txt := range []string{"one", "two", "three"} {
		if _, err := svc.Post(context.Background(), "comments:1", sender, CommentInput{Message: txt}); err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	evs, err := svc.Recent(context.Background(), "comments:1", 50)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(evs) != 3 || evs[0].Message != "one" || evs[2].Message != "three" {
		t.Fatalf("recent = %+v", evs)
	}
}
