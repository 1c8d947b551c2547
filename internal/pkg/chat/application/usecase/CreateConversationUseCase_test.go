package usecase

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

func TestCreatePrivateConversationDeduplicates(t *testing.T) {
	repo := newMemConversationRepo()
	uc := NewCreateConversationUseCase(repo, nil, nil)

	first, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		MemberIDs: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !first.Created {
		t.Error("first call should report created")
	}

	// Reversed member order must resolve to the same conversation.
	second, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "bob",
		MemberIDs: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Created {
		t.Error("second call should not create")
	}
	if first.ConversationID != second.ConversationID {
		t.Errorf("pair resolved to two conversations: %s vs %s", first.ConversationID, second.ConversationID)
	}
}

func TestCreatePrivateConversationConcurrent(t *testing.T) {
	repo := newMemConversationRepo()
	uc := NewCreateConversationUseCase(repo, nil, nil)

	ids := make([]string, 16)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := uc.Execute(context.Background(), CreateConversationInput{
				CreatorID: "alice",
				MemberIDs: []string{"bob"},
			})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids[i] = res.ConversationID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("racing creators got different conversations: %v", ids)
		}
	}
}

func TestCreateConversationValidation(t *testing.T) {
	uc := NewCreateConversationUseCase(newMemConversationRepo(), nil, nil)

	// Creator alone is one member after dedup.
	_, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		MemberIDs: []string{"alice", " "},
	})
	if !errors.Is(err, chat.ErrTooFewMembers) {
		t.Errorf("solo: err = %v, want ErrTooFewMembers", err)
	}

	_, err = uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		MemberIDs: []string{"bob", "carol"},
	})
	if !errors.Is(err, chat.ErrPrivatePairSize) {
		t.Errorf("trio private: err = %v, want ErrPrivatePairSize", err)
	}
}

func TestCreateGroupAssignsOwnerAndInvalidatesCache(t *testing.T) {
	repo := newMemConversationRepo()
	cache := newMemRoomCache()
	cache.PutRooms(context.Background(), "bob", []string{"stale"})

	uc := NewCreateConversationUseCase(repo, cache, nil)
	res, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		IsGroup:   true,
		MemberIDs: []string{"bob", "carol"},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	owner, _ := repo.GetParticipant(context.Background(), res.ConversationID, "alice")
	if owner == nil || owner.Role != chat.ParticipantRoleOwner {
		t.Errorf("creator role = %v, want owner", owner)
	}
	member, _ := repo.GetParticipant(context.Background(), res.ConversationID, "bob")
	if member == nil || member.Role != chat.ParticipantRoleMember {
		t.Errorf("member role = %v, want member", member)
	}

	if _, ok := cache.GetRooms(context.Background(), "bob"); ok {
		t.Error("stale room cache entry survived group creation")
	}
}

// Members who are already connected must start receiving events for a new
// conversation immediately, so creation has to subscribe their live sockets
// to the room rather than waiting for a reconnect.
func TestCreateConversationJoinsLiveMembers(t *testing.T) {
	repo := newMemConversationRepo()
	joiner := newRecordingJoiner()
	uc := NewCreateConversationUseCase(repo, nil, joiner)

	private, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		MemberIDs: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("create private: %v", err)
	}
	if got := joiner.usersIn(private.ConversationID); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("private create joined %v, want both members", got)
	}

	// Resolving the existing pair again must not re-join.
	if _, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "bob",
		MemberIDs: []string{"alice"},
	}); err != nil {
		t.Fatalf("resolve private: %v", err)
	}
	if got := joiner.usersIn(private.ConversationID); len(got) != 2 {
		t.Errorf("dedup hit re-joined sockets: %v", got)
	}

	group, err := uc.Execute(context.Background(), CreateConversationInput{
		CreatorID: "alice",
		IsGroup:   true,
		MemberIDs: []string{"bob", "carol"},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if got := joiner.usersIn(group.ConversationID); !reflect.DeepEqual(got, []string{"alice", "bob", "carol"}) {
		t.Errorf("group create joined %v, want every member", got)
	}
}
