package user

import "time"

// User is the directory record shown alongside conversations and presence.
// Authentication lives elsewhere; this service only reads profiles.
type User struct {
	ID          string    `db:"id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
}
