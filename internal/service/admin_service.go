// internal/service/admin_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wealthpath-admin/internal/api/types"
	"wealthpath-admin/internal/domain"
	"wealthpath-admin/internal/events"
	"wealthpath-admin/internal/repository"
	"wealthpath-admin/internal/util"
	"wealthpath-admin/pkg/db"
)

const (
	// ActivityDays is the length of the daily activity series, today included.
	ActivityDays = 30

	dashboardQueryConcurrency = 4
)

// Dashboard is everything the dashboard page shows for one request.
type Dashboard struct {
	Snapshot    domain.DashboardSnapshot `json:"snapshot"`
	Activity    []domain.DailyCount      `json:"activity"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// UserDetail is a user together with one page of their transactions.
type UserDetail struct {
	User         *domain.User
	Transactions types.PaginatedResponse[domain.Transaction]
}

// AdminService defines the interface for the admin console's business logic.
type AdminService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetUsers(ctx context.Context, search string, page types.PageRequest) (types.PaginatedResponse[domain.User], error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserDetail(ctx context.Context, id uuid.UUID, page types.PageRequest) (*UserDetail, error)
	GetUserTransactions(ctx context.Context, userID uuid.UUID, page types.PageRequest) (types.PaginatedResponse[domain.Transaction], error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// adminService implements the AdminService interface.
type adminService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	publisher       events.Publisher
	logger          *slog.Logger
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	now             func() time.Time
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	publisher events.Publisher,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AdminService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &adminService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		logger:          logger,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		now:             time.Now,
	}
}

// GetDashboard runs the dashboard queries concurrently and assembles a snapshot.
// The queries are independent reads; skew between them is accepted.
func (s *adminService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	windows := domain.NewWindows(now)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	activityFrom := today.AddDate(0, 0, -(ActivityDays - 1))

	var (
		users      domain.UserCounts
		txs        domain.TransactionCounts
		sums       domain.Sums
		categories []domain.CategoryTotal
		currencies []domain.CurrencyCount
		activity   []domain.DailyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardQueryConcurrency)

	run := func(name string, fn func(ctx context.Context, q repository.DBExecutor) error) {
		g.Go(func() error {
			if err := fn(gctx, s.dbExecutor); err != nil {
				return fmt.Errorf("get dashboard: %s: %w", name, err)
			}
			return nil
		})
	}

	run("total users", func(ctx context.Context, q repository.DBExecutor) (err error) {
		users.Total, err = s.userRepo.CountUsers(ctx, q)
		return err
	})
	run("new users today", func(ctx context.Context, q repository.DBExecutor) (err error) {
		users.NewToday, err = s.userRepo.CountUsersCreatedAfter(ctx, q, windows.DayAgo)
		return err
	})
	run("new users this week", func(ctx context.Context, q repository.DBExecutor) (err error) {
		users.NewThisWeek, err = s.userRepo.CountUsersCreatedAfter(ctx, q, windows.WeekAgo)
		return err
	})
	run("oauth users", func(ctx context.Context, q repository.DBExecutor) (err error) {
		users.OAuth, err = s.userRepo.CountOAuthUsers(ctx, q)
		return err
	})
	run("users by currency", func(ctx context.Context, q repository.DBExecutor) (err error) {
		currencies, err = s.userRepo.CountUsersByCurrency(ctx, q)
		return err
	})
	run("total transactions", func(ctx context.Context, q repository.DBExecutor) (err error) {
		txs.Total, err = s.transactionRepo.CountTransactions(ctx, q)
		return err
	})
	run("income transactions", func(ctx context.Context, q repository.DBExecutor) (err error) {
		txs.Income, err = s.transactionRepo.CountTransactionsByType(ctx, q, domain.TransactionTypeIncome)
		return err
	})
	run("expense transactions", func(ctx context.Context, q repository.DBExecutor) (err error) {
		txs.Expense, err = s.transactionRepo.CountTransactionsByType(ctx, q, domain.TransactionTypeExpense)
		return err
	})
	run("transactions today", func(ctx context.Context, q repository.DBExecutor) (err error) {
		txs.Today, err = s.transactionRepo.CountTransactionsDatedAfter(ctx, q, windows.DateCutoff)
		return err
	})
	run("total income", func(ctx context.Context, q repository.DBExecutor) (err error) {
		sums.Income, err = s.transactionRepo.SumAmountByType(ctx, q, domain.TransactionTypeIncome)
		return err
	})
	run("total expenses", func(ctx context.Context, q repository.DBExecutor) (err error) {
		sums.Expenses, err = s.transactionRepo.SumAmountByType(ctx, q, domain.TransactionTypeExpense)
		return err
	})
	run("expenses by category", func(ctx context.Context, q repository.DBExecutor) (err error) {
		categories, err = s.transactionRepo.SumExpensesByCategory(ctx, q)
		return err
	})
	run("daily activity", func(ctx context.Context, q repository.DBExecutor) (err error) {
		activity, err = s.transactionRepo.CountTransactionsByDate(ctx, q, activityFrom)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Snapshot:    domain.ComputeSnapshot(users, txs, sums, categories, currencies),
		Activity:    domain.FillDailyCounts(activity, activityFrom, now),
		GeneratedAt: now,
	}, nil
}

// GetUsers returns one page of users matching search, newest first.
func (s *adminService) GetUsers(ctx context.Context, search string, page types.PageRequest) (types.PaginatedResponse[domain.User], error) {
	users, total, err := s.userRepo.ListUsers(ctx, s.dbExecutor, repository.UserFilter{
		Search: search,
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		return types.PaginatedResponse[domain.User]{}, fmt.Errorf("get users: %w", err)
	}
	return types.NewPaginatedResponse(users, page, total), nil
}

func (s *adminService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: failed to get user %s: %w", id, err)
	}
	return user, nil
}

// GetUserDetail loads the user once and then one page of their transactions.
func (s *adminService) GetUserDetail(ctx context.Context, id uuid.UUID, page types.PageRequest) (*UserDetail, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, total, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, id, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions of user %s: %w", id, err)
	}
	return &UserDetail{
		User:         user,
		Transactions: types.NewPaginatedResponse(transactions, page, total),
	}, nil
}

// GetUserTransactions retrieves a paginated list of a user's transactions.
func (s *adminService) GetUserTransactions(ctx context.Context, userID uuid.UUID, page types.PageRequest) (types.PaginatedResponse[domain.Transaction], error) {
	detail, err := s.GetUserDetail(ctx, userID, page)
	if err != nil {
		return types.PaginatedResponse[domain.Transaction]{}, err
	}
	return detail.Transactions, nil
}

// DeleteUser removes a user and all of their transactions in one database
// transaction, then announces the deletion. A failed announcement is logged only.
func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("delete user: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, id)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("delete user: failed to get user %s: %w", id, err)
	}

	removed, err := s.transactionRepo.DeleteTransactionsByUserID(ctx, txExecutor, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.userRepo.DeleteUser(ctx, txExecutor, id); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete user: failed to commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "User deleted", "user_id", id, "transactions_deleted", removed)

	event := events.UserDeletedEvent{
		UserID:              user.ID,
		Email:               user.Email,
		TransactionsDeleted: removed,
		DeletedAt:           s.now().UTC(),
	}
	if err := s.publisher.PublishUserDeleted(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish user deleted event", "user_id", id, "error", err)
	}
	return nil
}
