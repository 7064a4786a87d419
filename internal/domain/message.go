package domain

import "time"

type StoredMessage struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Avatar    string    `db:"avatar"`
	Text      string    `db:"text"`
	Mentions  []string  `db:"mentions"`
	ReplyTo   *string   `db:"reply_to"`
	CreatedAt time.Time `db:"created_at"`
}
