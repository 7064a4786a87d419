package room

import (
	"errors"
	"sync"
)

// ErrRoomClosed — комната уже удалена из реестра; нужно взять новую
// через GetOrCreate.
var ErrRoomClosed = errors.New("room closed")

// Room — состояние одной комнаты: текущие сессии и последний разосланный
// ростер. Все мутации под r.mu; отправка в соединения — только вне блокировки,
// по снапшоту участников.
type Room struct {
	ID string

	mu         sync.Mutex
	closed     bool
	members    map[string]*Session // sessionID -> session
	lastRoster []RosterEntry
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[string]*Session),
	}
}

// Add вставляет сессию, предварительно вытесняя прежние сессии того же
// пользователя. O(n) скан по комнате; размеры комнат малы (участники
// встречи). Вытесненные сессии возвращаются вызывающему — закрывать их
// нужно уже после освобождения блокировки.
func (r *Room) Add(s *Session) ([]*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomClosed
	}

	var evicted []*Session
	for sid, m := range r.members {
		if m.Identity.UserID == s.Identity.UserID {
			delete(r.members, sid)
			evicted = append(evicted, m)
		}
	}
	r.members[s.ID] = s
	return evicted, nil
}

// Remove удаляет сессию. removed=false значит её уже удалили
// (вытеснение и собственный disconnect могут гнаться).
func (r *Room) Remove(sessionID string) (remaining int, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[sessionID]; !ok {
		return len(r.members), false
	}
	delete(r.members, sessionID)
	return len(r.members), true
}

func (r *Room) Member(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.members[sessionID]
	return s, ok
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Snapshot — копия списка участников для рассылки вне блокировки.
func (r *Room) Snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.members))
	for _, s := range r.members {
		out = append(out, s)
	}
	return out
}
