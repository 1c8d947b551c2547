package repository

import (
	"context"

	user "github.com/Hahanic/momo-messenger/internal/pkg/user/domain"
)

// UserRepository reads the user directory. Missing users return nil, not an
// error, so callers can render placeholders for deleted accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]user.User, error)
}
