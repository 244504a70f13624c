// Package ledger records expenses and income. Each entry, the member and
// family balance changes it causes, and its transaction snapshot are written
// in one database transaction.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/cointrack/internal/database"
	"github.com/dukerupert/cointrack/internal/events"
	"github.com/dukerupert/cointrack/internal/metrics"
	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/dukerupert/cointrack/internal/store"
)

var (
	ErrNoFamily     = errors.New("user is not associated with any family")
	ErrUserNotFound = errors.New("user not found")
)

type Ledger struct {
	db           *sql.DB
	users        *store.UserStore
	families     *store.FamilyStore
	expenses     *store.ExpenseStore
	incomes      *store.IncomeStore
	transactions *store.TransactionStore
	publisher    events.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// New builds a Ledger. publisher and m may be nil.
func New(db *sql.DB, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Ledger {
	return &Ledger{
		db:           db,
		users:        store.NewUserStore(db),
		families:     store.NewFamilyStore(db),
		expenses:     store.NewExpenseStore(db),
		incomes:      store.NewIncomeStore(db),
		transactions: store.NewTransactionStore(db),
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// RecordExpense validates req and records it for memberID. The expense is
// attached to the member's family when they have one.
func (l *Ledger) RecordExpense(ctx context.Context, memberID string, req ExpenseRequest) (*model.Expense, error) {
	in, err := req.validate(l.now())
	if err != nil {
		return nil, err
	}

	user, err := l.users.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	expense := &model.Expense{
		Title:    in.title,
		Amount:   in.amount,
		Category: in.category,
		Date:     in.date,
		MemberID: user.ID,
	}
	if user.HasFamily() {
		fid := *user.FamilyID
		expense.FamilyID = &fid
	}

	var snapshot *model.Transaction
	err = database.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		if err := l.expenses.WithTx(tx).Create(ctx, expense); err != nil {
			return err
		}

		balance, err := l.users.WithTx(tx).AdjustBalance(ctx, user.ID, in.amount.Neg())
		if err != nil {
			return err
		}

		if expense.FamilyID != nil {
			if _, err := l.families.WithTx(tx).AdjustBalance(ctx, *expense.FamilyID, in.amount.Neg()); err != nil {
				return err
			}
		}

		snapshot = &model.Transaction{
			Type:         model.TransactionExpense,
			Title:        expense.Title,
			Amount:       expense.Amount,
			Category:     expense.Category,
			RelatedID:    expense.ID,
			BalanceAfter: balance,
			MemberID:     expense.MemberID,
			FamilyID:     expense.FamilyID,
			Date:         expense.Date,
		}
		return l.transactions.WithTx(tx).Create(ctx, snapshot)
	})
	if err != nil {
		l.metrics.LedgerFailure(model.TransactionExpense)
		return nil, fmt.Errorf("record expense: %w", err)
	}
	l.metrics.LedgerEntry(model.TransactionExpense)

	l.logger.InfoContext(ctx, "expense recorded",
		"expense_id", expense.ID,
		"member_id", expense.MemberID,
		"amount", expense.Amount.String(),
		"balance_after", snapshot.BalanceAfter.String(),
	)
	l.publish(ctx, events.New(events.TypeExpenseCreated, user.FamilyIDOrEmpty(), user.ID, expense.ID).
		WithAmounts(expense.Title, expense.Amount, snapshot.BalanceAfter))

	return expense, nil
}

// RecordIncome validates req and records it for memberID. Income requires
// family membership.
func (l *Ledger) RecordIncome(ctx context.Context, memberID string, req IncomeRequest) (*model.Income, error) {
	user, err := l.users.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	in, err := req.validate(l.now(), user.HasFamily())
	if err != nil {
		return nil, err
	}

	income := &model.Income{
		Title:    in.title,
		Amount:   in.amount,
		Date:     in.date,
		MemberID: user.ID,
		FamilyID: *user.FamilyID,
	}

	var balance money.Amount
	err = database.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		if err := l.incomes.WithTx(tx).Create(ctx, income); err != nil {
			return err
		}

		var err error
		balance, err = l.users.WithTx(tx).AdjustBalance(ctx, user.ID, in.amount)
		if err != nil {
			return err
		}

		if _, err := l.families.WithTx(tx).AdjustBalance(ctx, income.FamilyID, in.amount); err != nil {
			return err
		}

		familyID := income.FamilyID
		return l.transactions.WithTx(tx).Create(ctx, &model.Transaction{
			Type:         model.TransactionIncome,
			Title:        income.Title,
			Amount:       income.Amount,
			RelatedID:    income.ID,
			BalanceAfter: balance,
			MemberID:     income.MemberID,
			FamilyID:     &familyID,
			Date:         income.Date,
		})
	})
	if err != nil {
		l.metrics.LedgerFailure(model.TransactionIncome)
		return nil, fmt.Errorf("record income: %w", err)
	}
	l.metrics.LedgerEntry(model.TransactionIncome)

	l.logger.InfoContext(ctx, "income recorded",
		"income_id", income.ID,
		"member_id", income.MemberID,
		"amount", income.Amount.String(),
		"balance_after", balance.String(),
	)
	l.publish(ctx, events.New(events.TypeIncomeCreated, income.FamilyID, user.ID, income.ID).
		WithAmounts(income.Title, income.Amount, balance))

	return income, nil
}

type ExpensePage struct {
	Data       []model.Expense `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// ListExpenses returns the member's expenses, newest first, optionally
// restricted to one category.
func (l *Ledger) ListExpenses(ctx context.Context, memberID, category string, p Page) (*ExpensePage, error) {
	filter := store.ExpenseFilter{MemberID: memberID, Category: category}

	total, err := l.expenses.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := l.expenses.List(ctx, filter, p.Limit, p.Skip)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []model.Expense{}
	}
	return &ExpensePage{Data: data, Pagination: newPagination(total, p)}, nil
}

type TransactionPage struct {
	Data       []model.Transaction `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// ListTransactions returns the member's snapshots, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, memberID string, p Page) (*TransactionPage, error) {
	total, err := l.transactions.CountByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	data, err := l.transactions.ListByMember(ctx, memberID, p.Limit, p.Skip)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []model.Transaction{}
	}
	return &TransactionPage{Data: data, Pagination: newPagination(total, p)}, nil
}

func (l *Ledger) publish(ctx context.Context, e events.Event) {
	if l.publisher == nil {
		return
	}
	l.publisher.Publish(ctx, e)
}
