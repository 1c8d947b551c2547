package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) CreateGroup(ctx context.Context, creatorID string, memberIDs []string) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgConversationRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx,
		"INSERT INTO chat.conversation (is_group, created_at) VALUES (TRUE, now()) RETURNING id::text",
	).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, uid := range memberIDs {
		role := chat.ParticipantRoleMember
		if uid == creatorID {
			role = chat.ParticipantRoleOwner
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id, role, joined_at)
			VALUES ($1::uuid, $2::uuid, $3, now())
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, id, uid, role); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// GetOrCreatePrivate relies on the unique index on pair_key for the
// insert-if-absent guarantee: two racing create requests both land on the same
// row, one inserting and one selecting.
func (r *PgConversationRepository) GetOrCreatePrivate(ctx context.Context, userA, userB string) (string, bool, error) {
	if r == nil || r.pool == nil {
		return "", false, errors.New("PgConversationRepository: nil pool")
	}

	pairKey := chat.PairKey(userA, userB)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		id      string
		created bool
	)
	err = tx.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO chat.conversation (is_group, created_at, pair_key)
			VALUES (FALSE, now(), $1)
			ON CONFLICT (pair_key) DO NOTHING
			RETURNING id
		)
		SELECT id::text, TRUE AS created FROM ins
		UNION ALL
		SELECT id::text, FALSE FROM chat.conversation WHERE pair_key = $1
		LIMIT 1
	`, pairKey).Scan(&id, &created)
	if err != nil {
		return "", false, err
	}

	if created {
		for _, uid := range []string{userA, userB} {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat.participant (conversation_id, user_id, role, joined_at)
				VALUES ($1::uuid, $2::uuid, $3, now())
				ON CONFLICT (conversation_id, user_id) DO NOTHING
			`, id, uid, chat.ParticipantRoleMember); err != nil {
				return "", false, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", false, err
	}
	return id, created, nil
}

func (r *PgConversationRepository) FindByID(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, is_group, created_at, last_message_at, last_message_snippet
		FROM chat.conversation
		WHERE id = $1::uuid
	`, conversationID).Scan(&c.ID, &c.IsGroup, &c.CreatedAt, &c.LastMessageAt, &c.LastMessageSnippet)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgConversationRepository) IsParticipant(ctx context.Context, conversationID string, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgConversationRepository: nil pool")
	}
	var one int
	err := r.pool.QueryRow(ctx, `
		SELECT 1 FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PgConversationRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text FROM chat.participant WHERE conversation_id = $1::uuid
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgConversationRepository) GetParticipant(ctx context.Context, conversationID string, userID string) (*chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	var p chat.Participant
	err := r.pool.QueryRow(ctx, `
		SELECT conversation_id::text, user_id::text, role, joined_at, is_muted, is_sticky, peer_nickname, last_read_at
		FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID).Scan(
		&p.ConversationID, &p.UserID, &p.Role, &p.JoinedAt,
		&p.IsMuted, &p.IsSticky, &p.PeerNickname, &p.LastReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgConversationRepository) FindConversationIDsByParticipant(ctx context.Context, userID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text FROM chat.participant WHERE user_id = $1::uuid
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgConversationRepository) ListPrivatePeers(ctx context.Context, userID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT peer.user_id::text
		FROM chat.conversation c
		JOIN chat.participant me ON me.conversation_id = c.id AND me.user_id = $1::uuid
		JOIN chat.participant peer ON peer.conversation_id = c.id AND peer.user_id <> me.user_id
		WHERE c.is_group = FALSE
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgConversationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]chat.ConversationOverview, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	// Unread counting is bounded by the reporting ceiling: the inner LIMIT keeps
	// the subquery from walking an arbitrarily long unread tail.
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.is_group, c.created_at, c.last_message_at, c.last_message_snippet,
		       p.role, p.joined_at, p.is_muted, p.is_sticky, p.peer_nickname, p.last_read_at,
		       (SELECT COUNT(*) FROM (
		            SELECT 1 FROM chat.message m
		            WHERE m.conversation_id = c.id
		              AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at)
		            LIMIT 100) capped) AS unread_count,
		       ARRAY(SELECT peer.user_id::text FROM chat.participant peer
		             WHERE peer.conversation_id = c.id AND peer.user_id <> p.user_id) AS peer_ids
		FROM chat.conversation c
		JOIN chat.participant p ON p.conversation_id = c.id
		WHERE p.user_id = $1::uuid
		ORDER BY p.is_sticky DESC, c.last_message_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []chat.ConversationOverview
	for rows.Next() {
		var o chat.ConversationOverview
		if err := rows.Scan(
			&o.Conversation.ID, &o.Conversation.IsGroup, &o.Conversation.CreatedAt,
			&o.Conversation.LastMessageAt, &o.Conversation.LastMessageSnippet,
			&o.Viewer.Role, &o.Viewer.JoinedAt, &o.Viewer.IsMuted, &o.Viewer.IsSticky,
			&o.Viewer.PeerNickname, &o.Viewer.LastReadAt,
			&o.UnreadCount, &o.PeerIDs,
		); err != nil {
			return nil, err
		}
		o.Viewer.ConversationID = o.Conversation.ID
		o.Viewer.UserID = userID
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

// UpdateSummary is guarded so a delayed write for an older message can never
// rewind the summary past a newer one.
func (r *PgConversationRepository) UpdateSummary(ctx context.Context, conversationID string, at time.Time, snippet string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_at = $2, last_message_snippet = $3
		WHERE id = $1::uuid
		  AND (last_message_at IS NULL OR last_message_at <= $2)
	`, conversationID, at, snippet)
	return err
}

func (r *PgConversationRepository) AddParticipant(ctx context.Context, p chat.Participant) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.participant (conversation_id, user_id, role, joined_at)
		VALUES ($1::uuid, $2::uuid, $3, now())
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`, p.ConversationID, p.UserID, p.Role)
	return err
}

func (r *PgConversationRepository) RemoveParticipant(ctx context.Context, conversationID string, userID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrNotParticipant
	}
	return nil
}

func (r *PgConversationRepository) UpdateParticipantPrefs(ctx context.Context, conversationID string, userID string, prefs chat.ParticipantPrefs) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	// COALESCE cannot express "clear to NULL", so the nickname column gets an
	// explicit provided flag: an empty provided value clears it.
	nickProvided := prefs.PeerNickname != nil
	nickValue := ""
	if nickProvided {
		nickValue = *prefs.PeerNickname
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.participant
		SET is_muted      = COALESCE($3, is_muted),
		    is_sticky     = COALESCE($4, is_sticky),
		    peer_nickname = CASE WHEN $5::boolean THEN NULLIF($6, '') ELSE peer_nickname END
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID, prefs.IsMuted, prefs.IsSticky, nickProvided, nickValue)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrNotParticipant
	}
	return nil
}

func (r *PgConversationRepository) UpdateParticipantRole(ctx context.Context, conversationID string, userID string, role chat.ParticipantRole) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.participant
		SET role = $3
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID, role)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrNotParticipant
	}
	return nil
}

// MarkRead only moves the high-water mark forward; a delayed read signal with an
// older timestamp is a no-op rather than an error.
func (r *PgConversationRepository) MarkRead(ctx context.Context, conversationID string, userID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.participant
		SET last_read_at = $3
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		  AND (last_read_at IS NULL OR last_read_at <= $3)
	`, conversationID, userID, at)
	return err
}
