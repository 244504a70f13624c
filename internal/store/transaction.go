package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/google/uuid"
)

// TransactionStore is append-only: snapshots are never updated or deleted.
type TransactionStore struct {
	db DBTX
}

func NewTransactionStore(db DBTX) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) WithTx(tx *sql.Tx) *TransactionStore {
	return &TransactionStore{db: tx}
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*model.Transaction, error) {
	var t model.Transaction
	var familyID sql.NullString
	err := scanner.Scan(&t.ID, &t.Type, &t.Title, &t.Amount, &t.Category, &t.RelatedID,
		&t.BalanceAfter, &t.MemberID, &familyID, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.FamilyID = stringPtr(familyID)
	return &t, nil
}

const transactionCols = `id, type, title, amount, category, related_id, balance_after, member_id, family_id, date, created_at`

func (s *TransactionStore) Create(ctx context.Context, t *model.Transaction) error {
	t.ID = uuid.NewString()
	t.CreatedAt = now()
	t.Date = t.Date.UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, title, amount, category, related_id, balance_after, member_id, family_id, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Type, t.Title, t.Amount, t.Category, t.RelatedID, t.BalanceAfter,
		t.MemberID, nullString(t.FamilyID), t.Date, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) GetByRelatedID(ctx context.Context, relatedID string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionCols+` FROM transactions WHERE related_id = ?`, relatedID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListByMember returns one page of a member's snapshots, newest first.
func (s *TransactionStore) ListByMember(ctx context.Context, memberID string, limit, skip int) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE member_id = ?
		 ORDER BY date DESC, created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		memberID, limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (s *TransactionStore) CountByMember(ctx context.Context, memberID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE member_id = ?`, memberID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
