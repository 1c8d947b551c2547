package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Insert persists the message with a server-assigned created_at. The database
// clock is authoritative for ordering; client timestamps never reach this layer.
func (r *PgMessageRepository) Insert(ctx context.Context, m chat.Message) (string, time.Time, error) {
	if r == nil || r.pool == nil {
		return "", time.Time{}, errors.New("PgMessageRepository: nil pool")
	}

	var media any
	if len(m.Media) > 0 {
		encoded, err := json.Marshal(m.Media)
		if err != nil {
			return "", time.Time{}, err
		}
		media = string(encoded)
	}

	var (
		id        string
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, created_at, content, media)
		VALUES ($1::uuid, $2::uuid, now(), $3, $4::jsonb)
		RETURNING id::text, created_at
	`, m.ConversationID, m.SenderID, m.Content, media).Scan(&id, &createdAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return id, createdAt, nil
}

func (r *PgMessageRepository) ListByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, created_at, content, media
		FROM chat.message
		WHERE conversation_id = $1::uuid
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, conversationID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg      chat.Message
			rawMedia []byte
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.CreatedAt, &msg.Content, &rawMedia); err != nil {
			return nil, err
		}
		if len(rawMedia) > 0 {
			if err := json.Unmarshal(rawMedia, &msg.Media); err != nil {
				return nil, err
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// CountAfter bounds the scan with an inner LIMIT so stale conversations cannot
// turn the unread query into a full log walk.
func (r *PgMessageRepository) CountAfter(ctx context.Context, conversationID string, after *time.Time) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT 1 FROM chat.message
			WHERE conversation_id = $1::uuid
			  AND ($2::timestamptz IS NULL OR created_at > $2)
			LIMIT 100
		) capped
	`, conversationID, after).Scan(&count)
	return count, err
}
