// internal/repository/postgres/repository_test.go
package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wealthpath-admin/internal/domain"
	"wealthpath-admin/internal/repository"
	"wealthpath-admin/internal/util"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

var _ repository.DBExecutor = (*MockDBExecutor)(nil)

type rowsAffected int64

func (r rowsAffected) LastInsertId() (int64, error) { return 0, nil }
func (r rowsAffected) RowsAffected() (int64, error) { return int64(r), nil }

func setCount(n int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*args.Get(1).(*int64) = n
	}
}

func TestCountUsersCreatedAfter_UsesStrictComparison(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	since := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)

	q.On("GetContext", ctx, mock.AnythingOfType("*int64"), `SELECT COUNT(*) FROM users WHERE created_at > $1`, []interface{}{since}).
		Run(setCount(7)).Return(nil)

	n, err := NewUserRepository().CountUsersCreatedAfter(ctx, q, since)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	q.AssertExpectations(t)
}

func TestListUsers_WithSearchEscapesPattern(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	pattern := `%50\%\_off%`

	q.On("SelectContext", ctx, mock.Anything, mock.MatchedBy(func(query string) bool {
		return assert.Contains(t, query, "WHERE name ILIKE $1 OR email ILIKE $1") &&
			assert.Contains(t, query, "ORDER BY created_at DESC, id LIMIT $2 OFFSET $3")
	}), []interface{}{pattern, 20, 40}).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*[]domain.User) = []domain.User{{Email: "a@example.com"}}
		}).Return(nil)
	q.On("GetContext", ctx, mock.AnythingOfType("*int64"), `SELECT COUNT(*) FROM users WHERE name ILIKE $1 OR email ILIKE $1`, []interface{}{pattern}).
		Run(setCount(41)).Return(nil)

	users, total, err := NewUserRepository().ListUsers(ctx, q, repository.UserFilter{Search: " 50%_off ", Limit: 20, Offset: 40})

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(41), total)
	q.AssertExpectations(t)
}

func TestListUsers_WithoutSearch(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)

	q.On("SelectContext", ctx, mock.Anything, mock.MatchedBy(func(query string) bool {
		return assert.NotContains(t, query, "ILIKE") && assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	}), []interface{}{10, 0}).Return(nil)
	q.On("GetContext", ctx, mock.AnythingOfType("*int64"), `SELECT COUNT(*) FROM users`, []interface{}{}).
		Run(setCount(0)).Return(nil)

	users, total, err := NewUserRepository().ListUsers(ctx, q, repository.UserFilter{Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, total)
	q.AssertExpectations(t)
}

func TestGetUserByID_NotFound(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	id := uuid.New()

	q.On("GetContext", ctx, mock.Anything, mock.Anything, []interface{}{id}).Return(sql.ErrNoRows)

	user, err := NewUserRepository().GetUserByID(ctx, q, id)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		q := new(MockDBExecutor)
		q.On("ExecContext", ctx, `DELETE FROM users WHERE id = $1`, []interface{}{id}).Return(rowsAffected(1), nil)

		assert.NoError(t, NewUserRepository().DeleteUser(ctx, q, id))
	})

	t.Run("missing", func(t *testing.T) {
		q := new(MockDBExecutor)
		q.On("ExecContext", ctx, `DELETE FROM users WHERE id = $1`, []interface{}{id}).Return(rowsAffected(0), nil)

		assert.ErrorIs(t, NewUserRepository().DeleteUser(ctx, q, id), util.ErrNotFound)
	})
}

func TestSumAmountByType_PassesKind(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)

	q.On("GetContext", ctx, mock.AnythingOfType("*decimal.NullDecimal"), `SELECT SUM(amount) FROM transactions WHERE type = $1`, []interface{}{"income"}).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*decimal.NullDecimal) = decimal.NewNullDecimal(decimal.RequireFromString("12.5"))
		}).Return(nil)

	sum, err := NewTransactionRepository().SumAmountByType(ctx, q, domain.TransactionTypeIncome)

	require.NoError(t, err)
	assert.True(t, sum.Valid)
	assert.Equal(t, "12.5", sum.Decimal.String())
}

func TestTransactionKindQueries_RejectUnknownKind(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	repo := NewTransactionRepository()

	_, err := repo.SumAmountByType(ctx, q, domain.TransactionType("transfer"))
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = repo.CountTransactionsByType(ctx, q, domain.TransactionType(""))
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	q.AssertNotCalled(t, "GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCountTransactionsDatedAfter_UsesCalendarDay(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	day := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)

	q.On("GetContext", ctx, mock.AnythingOfType("*int64"), `SELECT COUNT(*) FROM transactions WHERE date > $1::date`, []interface{}{"2026-03-09"}).
		Run(setCount(3)).Return(nil)

	n, err := NewTransactionRepository().CountTransactionsDatedAfter(ctx, q, day)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeleteTransactionsByUserID_ReturnsRowsAffected(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	id := uuid.New()

	q.On("ExecContext", ctx, `DELETE FROM transactions WHERE user_id = $1`, []interface{}{id}).Return(rowsAffected(12), nil)

	n, err := NewTransactionRepository().DeleteTransactionsByUserID(ctx, q, id)

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
