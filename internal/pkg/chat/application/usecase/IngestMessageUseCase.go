package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// RoomPublisher fans events out to the live connections of a conversation room.
// Broadcast failures are delivery concerns, not ingestion concerns: implementations
// must not fail the pipeline, and delivery is at-most-once per connected handle.
type RoomPublisher interface {
	PublishNewMessage(conversationID string, msg chat.Message)
	PublishConversationUpdated(conversationID string, at time.Time, snippet string)
}

// PresenceView answers which of the given users currently hold a live connection.
type PresenceView interface {
	OnlineSubset(userIDs []string) []string
}

// OfflineNotifier hands a persisted message to the background notification path
// for participants with no live connection. Best effort.
type OfflineNotifier interface {
	NotifyOffline(ctx context.Context, conversationID, messageID, senderID string, recipientIDs []string)
}

// IngestMessageInput carries a message intent from either transport (socket frame
// or REST body). Timestamps are never accepted from the client.
type IngestMessageInput struct {
	ConversationID string
	SenderID       string
	Content        *string
	Media          []chat.Attachment
}

// IngestMessageUseCase runs the ingestion pipeline: membership re-check, durable
// write with server-assigned ordering, summary update, sender read-cursor
// advance, then fan-out. Ingestion is serialized per conversation so the summary
// always reflects the most recently persisted message.
type IngestMessageUseCase struct {
	Repo      repository.ConversationRepository
	Messages  repository.MessageRepository
	Publisher RoomPublisher
	Presence  PresenceView    // optional
	Notifier  OfflineNotifier // optional

	locks conversationLocks
}

func NewIngestMessageUseCase(
	repo repository.ConversationRepository,
	messages repository.MessageRepository,
	publisher RoomPublisher,
) *IngestMessageUseCase {
	return &IngestMessageUseCase{Repo: repo, Messages: messages, Publisher: publisher}
}

// Execute validates, persists, and fans out a new message.
//
// Failure contract: validation and authorization are checked before any mutation;
// a store failure aborts the remaining steps, so other room members never observe
// a message whose sender was told it failed.
func (uc *IngestMessageUseCase) Execute(ctx context.Context, in IngestMessageInput) (*chat.Message, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("conversationId and senderId are required")
	}

	unlock := uc.locks.lock(in.ConversationID)
	defer unlock()

	// Membership is re-checked at ingestion time; the connection-time room
	// snapshot is not trusted because membership can change underneath it.
	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	msg, err := chat.NewMessage(chat.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        in.Content,
		Media:          in.Media,
	})
	if err != nil {
		return nil, err
	}

	id, createdAt, err := uc.Messages.Insert(ctx, *msg)
	if err != nil {
		return nil, storeErr(err)
	}
	msg.ID = id
	msg.CreatedAt = createdAt

	snippet := msg.Snippet()
	if err := uc.Repo.UpdateSummary(ctx, in.ConversationID, createdAt, snippet); err != nil {
		return nil, storeErr(err)
	}

	// The sender has implicitly read their own message.
	if err := uc.Repo.MarkRead(ctx, in.ConversationID, in.SenderID, createdAt); err != nil {
		return nil, storeErr(err)
	}

	uc.Publisher.PublishNewMessage(in.ConversationID, *msg)
	uc.Publisher.PublishConversationUpdated(in.ConversationID, createdAt, snippet)

	uc.notifyOffline(ctx, msg)

	return msg, nil
}

// notifyOffline hands the message to the push path for members with no live
// connection. Lookup or enqueue failures never fail an already-durable ingest.
func (uc *IngestMessageUseCase) notifyOffline(ctx context.Context, msg *chat.Message) {
	if uc.Presence == nil || uc.Notifier == nil {
		return
	}

	memberIDs, err := uc.Repo.ListParticipantIDs(ctx, msg.ConversationID)
	if err != nil {
		return
	}

	online := make(map[string]struct{})
	for _, id := range uc.Presence.OnlineSubset(memberIDs) {
		online[id] = struct{}{}
	}

	var offline []string
	for _, id := range memberIDs {
		if id == msg.SenderID {
			continue
		}
		if _, ok := online[id]; !ok {
			offline = append(offline, id)
		}
	}
	if len(offline) == 0 {
		return
	}

	uc.Notifier.NotifyOffline(ctx, msg.ConversationID, msg.ID, msg.SenderID, offline)
}

// conversationLocks serializes ingestion per conversation without a global lock.
// Shards are keyed by a hash of the conversation ID, bounding memory while
// keeping unrelated conversations concurrent.
type conversationLocks struct {
	shards [64]sync.Mutex
}

func (l *conversationLocks) lock(conversationID string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(conversationID))
	shard := &l.shards[h.Sum32()%uint32(len(l.shards))]
	shard.Lock()
	return shard.Unlock
}
