package room

import (
	"log/slog"

	"github.com/anzzxx/E-lern-backend/internal/metrics"
)

// Router разбирает входящие конверты: точечные типы уходят одной сессии,
// широковещательные — всей комнате. Ошибки никогда не возвращаются
// отправителю; порядок сообщений одного отправителя сохраняется, потому что
// Route вызывается из его единственного read-цикла.
type Router struct {
	bc *Broadcaster
}

func NewRouter(bc *Broadcaster) *Router {
	return &Router{bc: bc}
}

func (rt *Router) Route(s *Session, env Envelope) {
	rm := s.Room()
	if rm == nil {
		return
	}

	switch {
	case isDirect(env.Type):
		if env.TargetSessionID == "" {
			return
		}
		target, ok := rm.Member(env.TargetSessionID)
		if !ok {
			// адресат уже вышел — молча отбрасываем
			return
		}
		relay := RelayEvent{Type: env.Type, SenderSessionID: s.ID, Data: env.Data}
		if err := target.Conn().Send(relay); err != nil {
			slog.Debug("relay send failed",
				"room", rm.ID, "from", s.ID, "to", target.ID, "err", err)
			return
		}
		metrics.RelayedMessages.Inc()

	case env.Type == TypeRosterRequest:
		rt.bc.SendRoster(s)

	case env.Type == TypeChat:
		// эхо отправителю тоже уходит: клиенты дедуплицируют по sessionId
		rt.bc.Broadcast(rm, RelayEvent{Type: env.Type, SenderSessionID: s.ID, Data: env.Data})

	default:
		// неизвестный тип — ProtocolError, соединение не рвём
	}
}
