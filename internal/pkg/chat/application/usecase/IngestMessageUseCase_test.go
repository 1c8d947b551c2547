package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

func strPtr(s string) *string { return &s }

func seedPrivate(t *testing.T, repo *memConversationRepo, a, b string) string {
	t.Helper()
	id, _, err := repo.GetOrCreatePrivate(context.Background(), a, b)
	if err != nil {
		t.Fatalf("seed private: %v", err)
	}
	return id
}

func TestIngestMessagePersistsAndBroadcasts(t *testing.T) {
	repo := newMemConversationRepo()
	msgs := newMemMessageRepo()
	pub := &recordingPublisher{}
	convID := seedPrivate(t, repo, "alice", "bob")

	uc := NewIngestMessageUseCase(repo, msgs, pub)
	out, err := uc.Execute(context.Background(), IngestMessageInput{
		ConversationID: convID,
		SenderID:       "alice",
		Content:        strPtr("hello"),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.ID == "" || out.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned id and timestamp, got %+v", out)
	}

	if len(pub.messages) != 1 || len(pub.updates) != 1 {
		t.Fatalf("expected one newMessage and one conversationUpdated, got %d/%d", len(pub.messages), len(pub.updates))
	}
	if pub.updates[0] != "hello" {
		t.Errorf("snippet = %q, want %q", pub.updates[0], "hello")
	}

	conv, _ := repo.FindByID(context.Background(), convID)
	if conv.LastMessageAt == nil || !conv.LastMessageAt.Equal(out.CreatedAt) {
		t.Errorf("summary timestamp not advanced to %v", out.CreatedAt)
	}

	p, _ := repo.GetParticipant(context.Background(), convID, "alice")
	if p.LastReadAt == nil || !p.LastReadAt.Equal(out.CreatedAt) {
		t.Errorf("sender read cursor not advanced")
	}
	peer, _ := repo.GetParticipant(context.Background(), convID, "bob")
	if peer.LastReadAt != nil {
		t.Errorf("recipient read cursor should not move")
	}
}

func TestIngestMessageRejectsNonParticipant(t *testing.T) {
	repo := newMemConversationRepo()
	msgs := newMemMessageRepo()
	pub := &recordingPublisher{}
	convID := seedPrivate(t, repo, "alice", "bob")

	uc := NewIngestMessageUseCase(repo, msgs, pub)
	_, err := uc.Execute(context.Background(), IngestMessageInput{
		ConversationID: convID,
		SenderID:       "mallory",
		Content:        strPtr("hi"),
	})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if len(msgs.messages[convID]) != 0 {
		t.Error("message was persisted despite authorization failure")
	}
	if len(pub.messages) != 0 {
		t.Error("broadcast happened despite authorization failure")
	}
}

func TestIngestMessageRejectsEmpty(t *testing.T) {
	repo := newMemConversationRepo()
	convID := seedPrivate(t, repo, "alice", "bob")

	uc := NewIngestMessageUseCase(repo, newMemMessageRepo(), &recordingPublisher{})
	_, err := uc.Execute(context.Background(), IngestMessageInput{
		ConversationID: convID,
		SenderID:       "alice",
		Content:        strPtr("   "),
	})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestIngestMessageStoreFailureStopsPipeline(t *testing.T) {
	repo := newMemConversationRepo()
	msgs := newMemMessageRepo()
	msgs.failInsert = errors.New("connection refused")
	pub := &recordingPublisher{}
	convID := seedPrivate(t, repo, "alice", "bob")

	uc := NewIngestMessageUseCase(repo, msgs, pub)
	_, err := uc.Execute(context.Background(), IngestMessageInput{
		ConversationID: convID,
		SenderID:       "alice",
		Content:        strPtr("hi"),
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if len(pub.messages) != 0 || len(pub.updates) != 0 {
		t.Error("fan-out happened after a failed write")
	}
}

func TestIngestMessageSummaryReflectsLatest(t *testing.T) {
	repo := newMemConversationRepo()
	msgs := newMemMessageRepo()
	pub := &recordingPublisher{}
	convID := seedPrivate(t, repo, "alice", "bob")

	uc := NewIngestMessageUseCase(repo, msgs, pub)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = uc.Execute(context.Background(), IngestMessageInput{
				ConversationID: convID,
				SenderID:       "alice",
				Content:        strPtr(fmt.Sprintf("m%d", i)),
			})
		}(i)
	}
	wg.Wait()

	stored := msgs.messages[convID]
	if len(stored) != 20 {
		t.Fatalf("persisted %d messages, want 20", len(stored))
	}
	latest := stored[len(stored)-1]
	conv, _ := repo.FindByID(context.Background(), convID)
	if conv.LastMessageAt == nil || !conv.LastMessageAt.Equal(latest.CreatedAt) {
		t.Errorf("summary timestamp %v does not match latest message %v", conv.LastMessageAt, latest.CreatedAt)
	}
	if conv.LastMessageSnippet == nil || *conv.LastMessageSnippet != latest.Snippet() {
		t.Errorf("summary snippet does not match latest message")
	}
}

func TestIngestMessageNotifiesOfflineMembers(t *testing.T) {
	repo := newMemConversationRepo()
	msgs := newMemMessageRepo()
	pub := &recordingPublisher{}

	convID, err := repo.CreateGroup(context.Background(), "alice", []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}

	uc := NewIngestMessageUseCase(repo, msgs, pub)
	uc.Presence = &staticPresence{online: map[string]bool{"alice": true, "bob": true}}
	notifier := &recordingNotifier{}
	uc.Notifier = notifier

	if _, err := uc.Execute(context.Background(), IngestMessageInput{
		ConversationID: convID,
		SenderID:       "alice",
		Content:        strPtr("hi"),
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected one notify call, got %d", len(notifier.calls))
	}
	if len(notifier.calls[0]) != 1 || notifier.calls[0][0] != "carol" {
		t.Errorf("offline recipients = %v, want [carol]", notifier.calls[0])
	}
}
