// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wealthpath-admin/internal/domain"
	"wealthpath-admin/internal/repository"
	"wealthpath-admin/internal/util"
)

const dateLayout = "2006-01-02"

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// GetTransactionsByUserID retrieves a paginated list of transactions for a specific user.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, user_id, type, amount, currency, category, description, date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for user %s: %w", userID, err)
	}

	return transactions, totalCount, nil
}

// DeleteTransactionsByUserID removes all transactions owned by a user.
func (r *TransactionRepository) DeleteTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID) (int64, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after deleting transactions for user %s: %w", userID, err)
	}
	return n, nil
}

func (r *TransactionRepository) CountTransactions(ctx context.Context, q repository.DBExecutor) (int64, error) {
	return count(ctx, q, "transactions", `SELECT COUNT(*) FROM transactions`)
}

func (r *TransactionRepository) CountTransactionsByType(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType) (int64, error) {
	if !txType.Valid() {
		return 0, fmt.Errorf("%w: unknown transaction type %q", util.ErrInvalidInput, txType)
	}
	return count(ctx, q, string(txType)+" transactions", `SELECT COUNT(*) FROM transactions WHERE type = $1`, string(txType))
}

// CountTransactionsDatedAfter compares on the DATE column, so only the calendar day of day is used.
func (r *TransactionRepository) CountTransactionsDatedAfter(ctx context.Context, q repository.DBExecutor, day time.Time) (int64, error) {
	return count(ctx, q, "recent transactions", `SELECT COUNT(*) FROM transactions WHERE date > $1::date`, day.Format(dateLayout))
}

// SumAmountByType returns an invalid NullDecimal when no transaction of that kind exists.
func (r *TransactionRepository) SumAmountByType(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType) (decimal.NullDecimal, error) {
	if !txType.Valid() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: unknown transaction type %q", util.ErrInvalidInput, txType)
	}
	var sum decimal.NullDecimal
	if err := q.GetContext(ctx, &sum, `SELECT SUM(amount) FROM transactions WHERE type = $1`, string(txType)); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum %s amounts: %w", txType, err)
	}
	return sum, nil
}

func (r *TransactionRepository) SumExpensesByCategory(ctx context.Context, q repository.DBExecutor) ([]domain.CategoryTotal, error) {
	rows := []domain.CategoryTotal{}
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE type = $1
		GROUP BY category
		ORDER BY total DESC, category`
	if err := q.SelectContext(ctx, &rows, query, string(domain.TransactionTypeExpense)); err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	return rows, nil
}

func (r *TransactionRepository) CountTransactionsByDate(ctx context.Context, q repository.DBExecutor, since time.Time) ([]domain.DailyCount, error) {
	rows := []domain.DailyCount{}
	query := `
		SELECT date AS day, COUNT(*) AS count
		FROM transactions
		WHERE date >= $1::date
		GROUP BY date
		ORDER BY date`
	if err := q.SelectContext(ctx, &rows, query, since.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("failed to count transactions by date: %w", err)
	}
	return rows, nil
}
