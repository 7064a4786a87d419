package room

import (
	"sync"

	"github.com/anzzxx/E-lern-backend/internal/metrics"
)

// Registry — процессная карта roomID -> Room. Создаётся в корне сервиса и
// передаётся явно; никакого глобального состояния — тесты собирают свой
// реестр на каждый кейс.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate возвращает существующую комнату или атомарно создаёт пустую.
func (g *Registry) GetOrCreate(roomID string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[roomID]
	if !ok {
		rm = newRoom(roomID)
		g.rooms[roomID] = rm
		metrics.ActiveRooms.Inc()
	}
	return rm
}

func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[roomID]
	return rm, ok
}

// RemoveIfEmpty удаляет комнату, только если участников не осталось.
// Проверка и удаление атомарны: порядок блокировок всегда реестр -> комната,
// а закрытая комната помечается, чтобы гонящийся Add ушёл на повтор.
func (g *Registry) RemoveIfEmpty(roomID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[roomID]
	if !ok {
		return false
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if len(rm.members) > 0 {
		return false
	}
	rm.closed = true
	delete(g.rooms, roomID)
	metrics.ActiveRooms.Dec()
	return true
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
