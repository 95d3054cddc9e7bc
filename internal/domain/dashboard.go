// internal/domain/dashboard.go
package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UserCounts are the user-table counters feeding a snapshot.
type UserCounts struct {
	Total       int64
	NewToday    int64
	NewThisWeek int64
	OAuth       int64
}

// TransactionCounts are the transaction-table counters feeding a snapshot.
type TransactionCounts struct {
	Total   int64
	Income  int64
	Expense int64
	Today   int64
}

// Sums carries the nullable SUM(amount) results. SQL SUM over no rows is NULL.
type Sums struct {
	Income   decimal.NullDecimal
	Expenses decimal.NullDecimal
}

// CategoryTotal is one row of the expenses-by-category grouping.
type CategoryTotal struct {
	Category string          `db:"category" json:"category"`
	Total    decimal.Decimal `db:"total" json:"total"`
}

// CurrencyCount is one row of the users-by-currency grouping.
type CurrencyCount struct {
	Currency string `db:"currency" json:"currency"`
	Users    int64  `db:"users" json:"users"`
}

// DailyCount is the number of transactions dated on one day.
type DailyCount struct {
	Day   time.Time `db:"day" json:"day"`
	Count int64     `db:"count" json:"count"`
}

// DashboardSnapshot is an immutable, request-scoped view of dashboard metrics.
type DashboardSnapshot struct {
	TotalUsers       int64 `json:"total_users"`
	NewUsersToday    int64 `json:"new_users_today"`
	NewUsersThisWeek int64 `json:"new_users_this_week"`
	OAuthUsers       int64 `json:"oauth_users"`

	TotalTransactions   int64 `json:"total_transactions"`
	IncomeTransactions  int64 `json:"income_transactions"`
	ExpenseTransactions int64 `json:"expense_transactions"`
	TransactionsToday   int64 `json:"transactions_today"`

	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`

	ExpensesByCategory []CategoryTotal   `json:"expenses_by_category"`
	UsersByCurrency    map[string]int64 `json:"users_by_currency"`
}

// NetFlow is total income minus total expenses.
func (s DashboardSnapshot) NetFlow() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpenses)
}

// MarshalJSON adds the derived net_flow field.
func (s DashboardSnapshot) MarshalJSON() ([]byte, error) {
	type plain DashboardSnapshot
	return json.Marshal(struct {
		plain
		NetFlow decimal.Decimal `json:"net_flow"`
	}{plain(s), s.NetFlow()})
}

// ComputeSnapshot assembles a snapshot from pre-fetched counters, sums and
// grouped rows. It has no side effects and does not retain its inputs.
func ComputeSnapshot(users UserCounts, txs TransactionCounts, sums Sums, categories []CategoryTotal, currencies []CurrencyCount) DashboardSnapshot {
	byCategory := make([]CategoryTotal, len(categories))
	copy(byCategory, categories)

	byCurrency := make(map[string]int64, len(currencies))
	for _, row := range currencies {
		byCurrency[row.Currency] += row.Users
	}

	return DashboardSnapshot{
		TotalUsers:          users.Total,
		NewUsersToday:       users.NewToday,
		NewUsersThisWeek:    users.NewThisWeek,
		OAuthUsers:          users.OAuth,
		TotalTransactions:   txs.Total,
		IncomeTransactions:  txs.Income,
		ExpenseTransactions: txs.Expense,
		TransactionsToday:   txs.Today,
		TotalIncome:         orZero(sums.Income),
		TotalExpenses:       orZero(sums.Expenses),
		ExpensesByCategory:  byCategory,
		UsersByCurrency:     byCurrency,
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
