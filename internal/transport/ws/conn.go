package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn сериализует запись в соединение: Send зовут и read-цикл владельца,
// и чужие горутины при рассылке.
type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

func newWsConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(v any) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(v)
}

// Close шлёт close-фрейм с прикладным кодом и рвёт транспорт. Повторные
// вызовы (вытеснение против собственного отключения) — no-op.
func (c *wsConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}
