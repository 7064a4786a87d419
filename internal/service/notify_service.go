package service

import (
	"github.com/anzzxx/E-lern-backend/internal/room"
)

// NotificationEvent — событие личного канала пользователя.
type NotificationEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NotificationService доставляет уведомления в личную комнату user:{id} —
// узкий случай того же координатора: комната с единственным участником.
type NotificationService struct {
	reg *room.Registry
	bc  *room.Broadcaster
}

func NewNotificationService(reg *room.Registry, bc *room.Broadcaster) *NotificationService {
	return &NotificationService{reg: reg, bc: bc}
}

// Push отправляет уведомление, если пользователь подключён. Отключённый
// получатель — не ошибка: доставка негарантированная по условию.
func (s *NotificationService) Push(userID int64, message string) bool {
	rm, ok := s.reg.Get(room.UserKey(userID))
	if !ok {
		return false
	}
	s.bc.Broadcast(rm, NotificationEvent{Type: "notification", Message: message})
	return true
}
