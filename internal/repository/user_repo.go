// internal/repository/user_repo.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wealthpath-admin/internal/domain"
)

// UserFilter narrows and pages a user listing.
type UserFilter struct {
	Search string // case-insensitive substring of name or email; empty matches all
	Limit  int
	Offset int
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// ListUsers returns one page of users, newest first, plus the total matching count.
	ListUsers(ctx context.Context, q DBExecutor, filter UserFilter) ([]domain.User, int64, error)
	GetUserByID(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.User, error)
	DeleteUser(ctx context.Context, q DBExecutor, id uuid.UUID) error

	CountUsers(ctx context.Context, q DBExecutor) (int64, error)
	// CountUsersCreatedAfter counts users with created_at strictly after since.
	CountUsersCreatedAfter(ctx context.Context, q DBExecutor, since time.Time) (int64, error)
	CountOAuthUsers(ctx context.Context, q DBExecutor) (int64, error)
	CountUsersByCurrency(ctx context.Context, q DBExecutor) ([]domain.CurrencyCount, error)
}
