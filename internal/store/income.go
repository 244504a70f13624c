package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/google/uuid"
)

type IncomeStore struct {
	db DBTX
}

func NewIncomeStore(db DBTX) *IncomeStore {
	return &IncomeStore{db: db}
}

func (s *IncomeStore) WithTx(tx *sql.Tx) *IncomeStore {
	return &IncomeStore{db: tx}
}

const incomeCols = `id, title, amount, date, member_id, family_id, created_at`

// Create inserts in, assigning its ID and CreatedAt.
func (s *IncomeStore) Create(ctx context.Context, in *model.Income) error {
	in.ID = uuid.NewString()
	in.CreatedAt = now()
	in.Date = in.Date.UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (id, title, amount, date, member_id, family_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Amount, in.Date, in.MemberID, in.FamilyID, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (s *IncomeStore) GetByID(ctx context.Context, id string) (*model.Income, error) {
	var in model.Income
	err := s.db.QueryRowContext(ctx, `SELECT `+incomeCols+` FROM incomes WHERE id = ?`, id).
		Scan(&in.ID, &in.Title, &in.Amount, &in.Date, &in.MemberID, &in.FamilyID, &in.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get income: %w", err)
	}
	return &in, nil
}
