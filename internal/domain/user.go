// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is assigned to users that never picked one.
const DefaultCurrency = "USD"

// User represents a registered user of the finance application.
type User struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"` // Unique across users
	Name          string    `db:"name" json:"name"`
	Currency      string    `db:"currency" json:"currency"`
	OAuthProvider *string   `db:"oauth_provider" json:"oauth_provider,omitempty"`
	OAuthID       *string   `db:"oauth_id" json:"oauth_id,omitempty"`
	AvatarURL     *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with a fresh id and the default currency.
func NewUser(email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Currency:  DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOAuth reports whether the user signed up through an OAuth provider.
func (u User) IsOAuth() bool {
	return u.OAuthProvider != nil
}
