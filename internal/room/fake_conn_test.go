package room

import (
	"errors"
	"sync"

	"github.com/anzzxx/E-lern-backend/internal/domain"
)

// fakeConn пишет события в память; потокобезопасен, как и настоящий wsConn.
type fakeConn struct {
	mu        sync.Mutex
	sent      []any
	failSends bool
	closed    bool
	closeCode int
}

func (c *fakeConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.failSends {
		return errors.New("send failed")
	}
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.closeCode = code
	return nil
}

func (c *fakeConn) events() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) rosters() []RosterEvent {
	var out []RosterEvent
	for _, v := range c.events() {
		if ev, ok := v.(RosterEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (c *fakeConn) userEvents(kind string) []UserEvent {
	var out []UserEvent
	for _, v := range c.events() {
		if ev, ok := v.(UserEvent); ok && ev.Type == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (c *fakeConn) closedWith() (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.closeCode
}

func ident(id int64, name string) domain.Identity {
	return domain.Identity{UserID: id, Username: name}
}

func joinNew(reg *Registry, bc *Broadcaster, roomID string, who domain.Identity) (*Session, *fakeConn) {
	c := &fakeConn{}
	s := NewSession(c, who)
	s.Join(reg, bc, roomID)
	return s, c
}
