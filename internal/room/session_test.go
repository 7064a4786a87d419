package room

import (
	"testing"
)

// Второе подключение того же пользователя вытесняет первое: старой сессии
// уходит close(4004), в комнате остаётся только новая.
func TestSameIdentityEviction(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()
	u := ident(7, "alice")

	sa, ca := joinNew(reg, bc, "meeting:r", u)
	sb, _ := joinNew(reg, bc, "meeting:r", u)

	closed, code := ca.closedWith()
	if !closed || code != CloseSuperseded {
		t.Fatalf("old session: closed=%v code=%d, want closed with %d", closed, code, CloseSuperseded)
	}

	rm := sb.Room()
	if got := rm.MemberCount(); got != 1 {
		t.Fatalf("members = %d, want 1", got)
	}
	if _, ok := rm.Member(sa.ID); ok {
		t.Fatalf("evicted session still a member")
	}
	if _, ok := rm.Member(sb.ID); !ok {
		t.Fatalf("new session is not a member")
	}

	// третий заход вытесняет второго точно так же
	sc, _ := joinNew(reg, bc, "meeting:r", u)
	if _, ok := sc.Room().Member(sb.ID); ok {
		t.Fatalf("second session survived third join")
	}
	if got := sc.Room().MemberCount(); got != 1 {
		t.Fatalf("members = %d, want 1", got)
	}
}

// Финальный ростер после вытеснения — [B]; A и B не фигурируют вместе
// в последнем broadcast.
func TestEvictionRosterNeverEndsWithBoth(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()
	u := ident(7, "alice")

	joinNew(reg, bc, "meeting:r", u)
	sb, cb := joinNew(reg, bc, "meeting:r", u)

	rs := cb.rosters()
	if len(rs) == 0 {
		t.Fatalf("new session received no roster")
	}
	last := rs[len(rs)-1]
	if len(last.Users) != 1 || last.Users[0].SessionID != sb.ID {
		t.Fatalf("final roster must be [B], got %+v", last.Users)
	}
}

// Disconnect вытесненной сессии — no-op по комнате: никакого user-left,
// комната не удаляется.
func TestEvictedDisconnectIsNoop(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()
	u := ident(7, "alice")

	sa, _ := joinNew(reg, bc, "meeting:r", u)
	sb, cb := joinNew(reg, bc, "meeting:r", u)

	sa.Disconnect(reg, bc)

	if reg.Len() != 1 {
		t.Fatalf("room must survive evicted session disconnect")
	}
	if got := sb.Room().MemberCount(); got != 1 {
		t.Fatalf("members = %d, want 1", got)
	}
	if evs := cb.userEvents(TypeUserLeft); len(evs) != 0 {
		t.Fatalf("no user-left expected, got %+v", evs)
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	sa, _ := joinNew(reg, bc, "meeting:r", ident(1, "alice"))
	_, cb := joinNew(reg, bc, "meeting:r", ident(2, "bob"))

	sa.Disconnect(reg, bc)
	sa.Disconnect(reg, bc)

	if evs := cb.userEvents(TypeUserLeft); len(evs) != 1 {
		t.Fatalf("user-left must fire once, got %d", len(evs))
	}
	if sa.State() != StateClosed {
		t.Fatalf("state = %v, want closed", sa.State())
	}
}

func TestSessionStates(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	c := &fakeConn{}
	s := NewSession(c, ident(1, "alice"))
	if s.State() != StateAuthenticated {
		t.Fatalf("after NewSession: state = %v", s.State())
	}

	s.Join(reg, bc, "meeting:r")
	if s.State() != StateJoined {
		t.Fatalf("after Join: state = %v", s.State())
	}

	s.Disconnect(reg, bc)
	if s.State() != StateClosed {
		t.Fatalf("after Disconnect: state = %v", s.State())
	}
}
