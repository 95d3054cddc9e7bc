// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wealthpath-admin/internal/domain"
	"wealthpath-admin/internal/repository"
	"wealthpath-admin/internal/util"
)

const userColumns = `id, email, name, currency, oauth_provider, oauth_id, avatar_url, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
// It holds no connection; every method runs on the DBExecutor it is given.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// ListUsers retrieves a page of users ordered by newest first.
// It performs two queries: one for the data and one for the total count.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor, filter repository.UserFilter) ([]domain.User, int64, error) {
	users := []domain.User{}

	where := ""
	args := []interface{}{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	if err := q.SelectContext(ctx, &users, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count listed users: %w", err)
	}

	return users, total, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := q.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// DeleteUser removes a user. A missing user yields util.ErrNotFound.
func (r *UserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting user %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountUsers(ctx context.Context, q repository.DBExecutor) (int64, error) {
	return count(ctx, q, "users", `SELECT COUNT(*) FROM users`)
}

func (r *UserRepository) CountUsersCreatedAfter(ctx context.Context, q repository.DBExecutor, since time.Time) (int64, error) {
	return count(ctx, q, "new users", `SELECT COUNT(*) FROM users WHERE created_at > $1`, since)
}

func (r *UserRepository) CountOAuthUsers(ctx context.Context, q repository.DBExecutor) (int64, error) {
	return count(ctx, q, "oauth users", `SELECT COUNT(*) FROM users WHERE oauth_provider IS NOT NULL`)
}

// CountUsersByCurrency groups users by their preferred currency.
func (r *UserRepository) CountUsersByCurrency(ctx context.Context, q repository.DBExecutor) ([]domain.CurrencyCount, error) {
	rows := []domain.CurrencyCount{}
	query := `SELECT currency, COUNT(*) AS users FROM users GROUP BY currency`
	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count users by currency: %w", err)
	}
	return rows, nil
}

func count(ctx context.Context, q repository.DBExecutor, what, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := q.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
