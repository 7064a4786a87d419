package room

import (
	"log/slog"
	"sort"

	"github.com/anzzxx/E-lern-backend/internal/domain"
	"github.com/anzzxx/E-lern-backend/internal/metrics"
)

// Broadcaster рассылает ростер и события комнаты. Отправка — best-effort:
// упавший Send логируется и не мешает остальным получателям.
type Broadcaster struct{}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// AnnounceRosterIfChanged считает отсортированный по sessionId ростер,
// сравнивает с последним разосланным и молчит, если состав не изменился
// (два join подряд не должны давать два одинаковых broadcast).
func (b *Broadcaster) AnnounceRosterIfChanged(rm *Room) {
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return
	}
	roster := rosterLocked(rm)
	if rosterEqual(roster, rm.lastRoster) {
		rm.mu.Unlock()
		return
	}
	rm.lastRoster = roster
	targets := make([]*Session, 0, len(rm.members))
	for _, m := range rm.members {
		targets = append(targets, m)
	}
	rm.mu.Unlock()

	b.send(rm.ID, targets, RosterEvent{Type: TypeRoster, Users: roster})
}

// AnnounceEvent — лёгкое уведомление user-joined/user-left, отдельное от
// полного ростера: фронт показывает тост, не дожидаясь пересчёта списка.
func (b *Broadcaster) AnnounceEvent(rm *Room, kind string, who domain.Identity) {
	b.send(rm.ID, rm.Snapshot(), UserEvent{
		Type: kind,
		User: UserRef{UserID: who.UserID, Username: who.Username},
	})
}

// Broadcast отправляет произвольное событие всем участникам комнаты.
// Используется чатом и уведомлениями.
func (b *Broadcaster) Broadcast(rm *Room, v any) {
	b.send(rm.ID, rm.Snapshot(), v)
}

// SendRoster отвечает текущим ростером одной сессии (roster-request),
// не трогая lastRoster.
func (b *Broadcaster) SendRoster(s *Session) {
	rm := s.Room()
	if rm == nil {
		return
	}
	rm.mu.Lock()
	roster := rosterLocked(rm)
	rm.mu.Unlock()

	if err := s.Conn().Send(RosterEvent{Type: TypeRoster, Users: roster}); err != nil {
		slog.Debug("roster send failed", "room", rm.ID, "session", s.ID, "err", err)
	}
}

func (b *Broadcaster) send(roomID string, targets []*Session, v any) {
	metrics.Broadcasts.Inc()
	for _, m := range targets {
		if err := m.Conn().Send(v); err != nil {
			slog.Debug("broadcast send failed", "room", roomID, "session", m.ID, "err", err)
		}
	}
}

func rosterLocked(rm *Room) []RosterEntry {
	roster := make([]RosterEntry, 0, len(rm.members))
	for _, m := range rm.members {
		roster = append(roster, RosterEntry{
			SessionID: m.ID,
			Username:  m.Identity.Username,
			UserID:    m.Identity.UserID,
		})
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].SessionID < roster[j].SessionID })
	return roster
}

func rosterEqual(a, b []RosterEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
