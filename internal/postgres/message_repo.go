package postgres

import (
	"context"
	"errors"

	"github.com/anzzxx/E-lern-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository — персистентное хранилище сообщений комнат
// (комментарии к урокам и чат).
type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append сохраняет сообщение и заполняет ID/CreatedAt из базы.
func (r *MessageRepository) Append(ctx context.Context, m *domain.StoredMessage) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO room_messages (room_id, user_id, text, mentions, reply_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.RoomID, m.UserID, m.Text, m.Mentions, m.ReplyTo)

	return row.Scan(&m.ID, &m.CreatedAt)
}

// Recent возвращает последние limit сообщений комнаты, старые первыми —
// порядок, в котором их проигрывают новому участнику.
func (r *MessageRepository) Recent(ctx context.Context, roomID string, limit int) ([]domain.StoredMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.room_id, m.user_id, u.username, COALESCE(u.avatar, ''), m.text, m.mentions, m.reply_to, m.created_at
		FROM room_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredMessage
	for rows.Next() {
		var m domain.StoredMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Avatar,
			&m.Text, &m.Mentions, &m.ReplyTo, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// разворачиваем: старые первыми
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// History — история комнаты с курсорной пагинацией (created_at,id DESC).
func (r *MessageRepository) History(ctx context.Context, roomID, after string, limit int) ([]domain.StoredMessage, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	cur, err := DecodeCursor(after)
	if err != nil {
		return nil, "", err
	}

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.room_id, m.user_id, u.username, COALESCE(u.avatar, ''), m.text, m.mentions, m.reply_to, m.created_at
		FROM room_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
		  AND (
		    $2::timestamptz IS NULL
		    OR m.created_at < $2
		    OR (m.created_at = $2 AND m.id < $3)
		  )
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $4
	`, roomID, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []domain.StoredMessage
	for rows.Next() {
		var m domain.StoredMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Avatar,
			&m.Text, &m.Mentions, &m.ReplyTo, &m.CreatedAt); err != nil {
			return nil, "", err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		if c, e := EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID}); e == nil {
			next = c
		}
	}
	return out, next, nil
}

// Get резолвит reply-ссылку на сохранённое сообщение.
func (r *MessageRepository) Get(ctx context.Context, id string) (*domain.StoredMessage, error) {
	row := r.db.QueryRow(ctx, `
		SELECT m.id, m.room_id, m.user_id, u.username, COALESCE(u.avatar, ''), m.text, m.mentions, m.reply_to, m.created_at
		FROM room_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`, id)

	var m domain.StoredMessage
	err := row.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Avatar,
		&m.Text, &m.Mentions, &m.ReplyTo, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}
