package chat

import (
	"testing"
	"time"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	if PairKey("bob", "alice") != PairKey("alice", "bob") {
		t.Fatal("pair key must be identical for both orderings")
	}
	if PairKey("alice", "bob") != "alice:bob" {
		t.Fatalf("unexpected pair key %q", PairKey("alice", "bob"))
	}
}

func TestValidateMembers(t *testing.T) {
	if err := ValidateMembers(false, []string{"a", "b"}); err != nil {
		t.Fatalf("two members should be valid for a private chat: %v", err)
	}
	if err := ValidateMembers(false, []string{"a", "b", "c"}); err != ErrPrivatePairSize {
		t.Fatalf("expected ErrPrivatePairSize, got %v", err)
	}
	if err := ValidateMembers(true, []string{"a"}); err != ErrTooFewMembers {
		t.Fatalf("expected ErrTooFewMembers, got %v", err)
	}
	if err := ValidateMembers(true, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("three members should be valid for a group: %v", err)
	}
}

func TestNormalizeMembers(t *testing.T) {
	got := NormalizeMembers([]string{" a ", "b", "a", "", "c"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected normalization result: %v", got)
	}
}

func TestApplyMessageAdvancesSummary(t *testing.T) {
	conv := Conversation{ID: "c1"}
	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	first := Message{ConversationID: "c1", SenderID: "a", Content: strPtr("first"), CreatedAt: t1}
	if !conv.ApplyMessage(first) {
		t.Fatal("first message should advance the summary")
	}
	if conv.LastMessageAt == nil || !conv.LastMessageAt.Equal(t1) {
		t.Fatalf("summary timestamp not advanced: %v", conv.LastMessageAt)
	}

	second := Message{ConversationID: "c1", SenderID: "b", Content: strPtr("second"), CreatedAt: t2}
	if !conv.ApplyMessage(second) {
		t.Fatal("newer message should advance the summary")
	}

	// a delayed write for the older message must not rewind the summary
	if conv.ApplyMessage(first) {
		t.Fatal("older message must not overwrite a newer summary")
	}
	if *conv.LastMessageSnippet != "second" {
		t.Fatalf("summary snippet rewound to %q", *conv.LastMessageSnippet)
	}
}
