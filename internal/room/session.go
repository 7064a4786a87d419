package room

import (
	"sync/atomic"

	"github.com/anzzxx/E-lern-backend/internal/domain"

	"github.com/google/uuid"
)

// Conn — абстракция над write-половиной соединения. Send может блокироваться
// или падать независимо по получателям, поэтому вызывается только вне
// блокировок комнаты.
type Conn interface {
	Send(v any) error
	Close(code int, reason string) error
}

type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateJoined
	StateClosing
	StateClosed
)

// Session — одно живое соединение. ID уникален и не переиспользуется;
// один пользователь может держать много сессий за время жизни процесса,
// но в комнате активна максимум одна.
type Session struct {
	ID       string
	Identity domain.Identity
	RoomID   string

	conn  Conn
	rm    *Room // выставляется в Join до старта read-цикла
	state atomic.Int32
	done  atomic.Bool
}

// NewSession создаётся после успешной аутентификации.
func NewSession(conn Conn, ident domain.Identity) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Identity: ident,
		conn:     conn,
	}
	s.state.Store(int32(StateAuthenticated))
	return s
}

func (s *Session) State() State { return State(s.state.Load()) }
func (s *Session) Conn() Conn   { return s.conn }
func (s *Session) Room() *Room  { return s.rm }

// Join регистрирует сессию в комнате, вытесняя прежние сессии того же
// пользователя, и анонсирует вход. Повтор по ErrRoomClosed закрывает гонку
// с RemoveIfEmpty на только что созданной комнате.
func (s *Session) Join(reg *Registry, bc *Broadcaster, roomID string) {
	for {
		rm := reg.GetOrCreate(roomID)
		evicted, err := rm.Add(s)
		if err != nil {
			continue
		}

		s.RoomID = roomID
		s.rm = rm
		s.state.Store(int32(StateJoined))

		for _, old := range evicted {
			old.supersede()
		}
		bc.AnnounceEvent(rm, TypeUserJoined, s.Identity)
		bc.AnnounceRosterIfChanged(rm)
		return
	}
}

// supersede закрывает вытесненную сессию. Из members её уже удалил Add;
// её собственный Disconnect по комнате будет no-op.
func (s *Session) supersede() {
	s.state.Store(int32(StateClosing))
	_ = s.conn.Close(CloseSuperseded, "superseded by new connection")
}

// Disconnect идемпотентен: транспортное закрытие и вытеснение могут
// сработать одновременно, второй вызов ничего не делает.
func (s *Session) Disconnect(reg *Registry, bc *Broadcaster) {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	s.state.Store(int32(StateClosing))

	if rm := s.rm; rm != nil {
		remaining, removed := rm.Remove(s.ID)
		if removed {
			if remaining == 0 {
				reg.RemoveIfEmpty(rm.ID)
			} else {
				bc.AnnounceEvent(rm, TypeUserLeft, s.Identity)
				bc.AnnounceRosterIfChanged(rm)
			}
		}
	}

	_ = s.conn.Close(CloseNormal, "")
	s.state.Store(int32(StateClosed))
}
