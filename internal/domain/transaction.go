// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the kind of a financial transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents an income or expense recorded by a user.
type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"` // DECIMAL(19, 4) in DB
	Currency    string          `db:"currency" json:"currency"`
	Category    string          `db:"category" json:"category"`
	Description *string         `db:"description" json:"description,omitempty"`
	Date        time.Time       `db:"date" json:"date"` // DATE column, day granularity
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// NewTransaction creates a new Transaction instance dated today.
func NewTransaction(userID uuid.UUID, txType TransactionType, amount decimal.Decimal, currency, category string, description *string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: description,
		Date:        now.Truncate(24 * time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
