package usecase

import (
	"errors"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

var (
	// ErrPersistence wraps store failures so transports can distinguish a
	// retryable outage from a rejected request.
	ErrPersistence = errors.New("usecase: persistence failure")

	// ErrBadCursor signals an unparseable pagination cursor.
	ErrBadCursor = errors.New("usecase: malformed cursor")
)

// storeErr classifies a repository error: domain errors pass through untouched,
// everything else is a persistence failure.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, chat.ErrNotFound) || errors.Is(err, chat.ErrNotParticipant) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
