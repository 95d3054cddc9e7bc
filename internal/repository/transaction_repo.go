// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wealthpath-admin/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// GetTransactionsByUserID returns one page of a user's transactions plus their total count.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error)
	// DeleteTransactionsByUserID removes every transaction of a user and returns how many were removed.
	DeleteTransactionsByUserID(ctx context.Context, q DBExecutor, userID uuid.UUID) (int64, error)

	CountTransactions(ctx context.Context, q DBExecutor) (int64, error)
	CountTransactionsByType(ctx context.Context, q DBExecutor, txType domain.TransactionType) (int64, error)
	// CountTransactionsDatedAfter counts transactions whose date is strictly after the given day.
	CountTransactionsDatedAfter(ctx context.Context, q DBExecutor, day time.Time) (int64, error)
	// SumAmountByType returns SUM(amount) for a kind; invalid when no rows match.
	SumAmountByType(ctx context.Context, q DBExecutor, txType domain.TransactionType) (decimal.NullDecimal, error)
	// SumExpensesByCategory groups expense amounts by category, largest first.
	SumExpensesByCategory(ctx context.Context, q DBExecutor) ([]domain.CategoryTotal, error)
	// CountTransactionsByDate counts transactions per day from since (inclusive), oldest first.
	CountTransactionsByDate(ctx context.Context, q DBExecutor, since time.Time) ([]domain.DailyCount, error)
}
