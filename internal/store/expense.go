package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/google/uuid"
)

type ExpenseStore struct {
	db DBTX
}

func NewExpenseStore(db DBTX) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) WithTx(tx *sql.Tx) *ExpenseStore {
	return &ExpenseStore{db: tx}
}

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	var familyID sql.NullString
	err := scanner.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.MemberID, &familyID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.FamilyID = stringPtr(familyID)
	return &e, nil
}

const expenseCols = `id, title, amount, category, date, member_id, family_id, created_at`

// Create inserts e, assigning its ID and CreatedAt.
func (s *ExpenseStore) Create(ctx context.Context, e *model.Expense) error {
	e.ID = uuid.NewString()
	e.CreatedAt = now()
	e.Date = e.Date.UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount, category, date, member_id, family_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Amount, e.Category, e.Date, e.MemberID, nullString(e.FamilyID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *ExpenseStore) GetByID(ctx context.Context, id string) (*model.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ExpenseFilter selects a member's expenses, optionally by category.
type ExpenseFilter struct {
	MemberID string
	Category string
}

func (f ExpenseFilter) where() (string, []any) {
	if f.Category == "" {
		return `member_id = ?`, []any{f.MemberID}
	}
	return `member_id = ? AND category = ?`, []any{f.MemberID, f.Category}
}

// List returns one page of expenses, newest first.
func (s *ExpenseStore) List(ctx context.Context, f ExpenseFilter, limit, skip int) ([]model.Expense, error) {
	where, args := f.where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE `+where+`
		 ORDER BY date DESC, created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		append(args, limit, skip)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *ExpenseStore) Count(ctx context.Context, f ExpenseFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}
