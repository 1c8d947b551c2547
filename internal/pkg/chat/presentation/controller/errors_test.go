package controller

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

func TestClientErrTextHidesStoreDetail(t *testing.T) {
	wrapped := fmt.Errorf("%w: dial tcp 10.0.0.5:5432: connection refused", usecase.ErrPersistence)

	got := clientErrText(wrapped)
	if got != "storage temporarily unavailable" {
		t.Errorf("persistence error text = %q", got)
	}
	if strings.Contains(got, "5432") || strings.Contains(got, "dial tcp") {
		t.Error("driver detail leaked into client-facing text")
	}

	if got := clientErrText(errors.New("pq: duplicate key value violates unique constraint")); got != "internal error" {
		t.Errorf("unrecognized error text = %q, want generic message", got)
	}
}

func TestClientErrTextKeepsDomainSentinels(t *testing.T) {
	cases := []error{
		chat.ErrNotParticipant,
		chat.ErrEmptyMessage,
		chat.ErrNotFound,
		usecase.ErrBadCursor,
	}
	for _, sentinel := range cases {
		if got := clientErrText(fmt.Errorf("ingest: %w", sentinel)); got != sentinel.Error() {
			t.Errorf("clientErrText(%v) = %q, want sentinel text", sentinel, got)
		}
	}
}
