package room

import (
	"testing"
)

// Два одинаковых ростера подряд не дают двух рассылок.
func TestRosterSuppression(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	_, ca := joinNew(reg, bc, "meeting:r", ident(1, "alice"))

	before := len(ca.rosters())
	bc.AnnounceRosterIfChanged(reg.GetOrCreate("meeting:r"))
	bc.AnnounceRosterIfChanged(reg.GetOrCreate("meeting:r"))
	after := len(ca.rosters())

	if before != after {
		t.Fatalf("unchanged roster must not be rebroadcast: %d -> %d", before, after)
	}
}

func TestRosterSortedBySessionID(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	joinNew(reg, bc, "meeting:r", ident(1, "alice"))
	joinNew(reg, bc, "meeting:r", ident(2, "bob"))
	_, cc := joinNew(reg, bc, "meeting:r", ident(3, "carol"))

	rs := cc.rosters()
	users := rs[len(rs)-1].Users
	if len(users) != 3 {
		t.Fatalf("roster size = %d, want 3", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].SessionID >= users[i].SessionID {
			t.Fatalf("roster not sorted by sessionId: %+v", users)
		}
	}
}

func TestAnnounceEventReachesEveryone(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	_, ca := joinNew(reg, bc, "meeting:r", ident(1, "alice"))
	_, cb := joinNew(reg, bc, "meeting:r", ident(2, "bob"))

	// B вошёл после A: оба должны видеть user-joined о B
	if len(ca.userEvents(TypeUserJoined)) < 1 {
		t.Fatalf("A missed user-joined")
	}
	evs := cb.userEvents(TypeUserJoined)
	if len(evs) != 1 || evs[0].User.Username != "bob" {
		t.Fatalf("B join event wrong: %+v", evs)
	}
}

// Падение отправки одному получателю не прерывает доставку остальным.
func TestSendFailureDoesNotAbortFanout(t *testing.T) {
	reg := NewRegistry()
	bc := NewBroadcaster()

	_, ca := joinNew(reg, bc, "meeting:r", ident(1, "alice"))
	ca.mu.Lock()
	ca.failSends = true
	ca.mu.Unlock()

	_, cb := joinNew(reg, bc, "meeting:r", ident(2, "bob"))

	rs := cb.rosters()
	if len(rs) == 0 || len(rs[len(rs)-1].Users) != 2 {
		t.Fatalf("B must still get roster [A,B], got %+v", rs)
	}
}
