package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/google/uuid"
)

type FamilyStore struct {
	db DBTX
}

func NewFamilyStore(db DBTX) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) WithTx(tx *sql.Tx) *FamilyStore {
	return &FamilyStore{db: tx}
}

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	err := scanner.Scan(&f.ID, &f.FamilyName, &f.FamilyCode, &f.AdminID, &f.Balance, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

const familyCols = `id, family_name, family_code, admin_id, balance, created_at, updated_at`

func (s *FamilyStore) Create(ctx context.Context, name, code, adminID string, balance money.Amount) (*model.Family, error) {
	id := uuid.NewString()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO families (id, family_name, family_code, admin_id, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, code, adminID, balance, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *FamilyStore) GetByID(ctx context.Context, id string) (*model.Family, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) GetByCode(ctx context.Context, code string) (*model.Family, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+familyCols+` FROM families WHERE family_code = ?`, code)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family by code: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM families WHERE family_code = ?)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check family code: %w", err)
	}
	return exists == 1, nil
}

// AddMember inserts the user into the family's member set. Adding an
// existing member is a no-op.
func (s *FamilyStore) AddMember(ctx context.Context, familyID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO family_members (family_id, user_id, joined_at) VALUES (?, ?, ?)`,
		familyID, userID, now(),
	)
	if err != nil {
		return fmt.Errorf("add family member: %w", err)
	}
	return nil
}

func (s *FamilyStore) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM family_members WHERE family_id = ? AND user_id = ?
			UNION ALL
			SELECT 1 FROM families WHERE id = ? AND admin_id = ?
		)`,
		familyID, userID, familyID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check family member: %w", err)
	}
	return exists == 1, nil
}

// ListMembers returns the admin followed by the other members in join order.
// The admin is included even if missing from family_members.
func (s *FamilyStore) ListMembers(ctx context.Context, familyID string) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixed("u", userCols)+`, fm.joined_at, f.created_at
		 FROM families f
		 JOIN users u ON u.id = f.admin_id OR u.id IN (SELECT user_id FROM family_members WHERE family_id = f.id)
		 LEFT JOIN family_members fm ON fm.family_id = f.id AND fm.user_id = u.id
		 WHERE f.id = ?
		 ORDER BY (u.id = f.admin_id) DESC, fm.joined_at ASC, u.created_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		var memberFamilyID sql.NullString
		var joinedAt sql.NullTime
		var familyCreated time.Time
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &memberFamilyID,
			&m.Balance, &m.ProfilePhoto, &m.CreatedAt, &m.UpdatedAt, &joinedAt, &familyCreated); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		m.FamilyID = stringPtr(memberFamilyID)
		m.JoinedAt = familyCreated
		if joinedAt.Valid {
			m.JoinedAt = joinedAt.Time
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AdjustBalance adds delta to the family's stored balance and returns it.
func (s *FamilyStore) AdjustBalance(ctx context.Context, id string, delta money.Amount) (money.Amount, error) {
	var balance money.Amount
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM families WHERE id = ?`, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return money.Zero, fmt.Errorf("adjust family balance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return money.Zero, fmt.Errorf("read family balance: %w", err)
	}

	balance = balance.Add(delta)
	if _, err := s.db.ExecContext(ctx,
		`UPDATE families SET balance = ?, updated_at = ? WHERE id = ?`,
		balance, now(), id,
	); err != nil {
		return money.Zero, fmt.Errorf("update family balance: %w", err)
	}
	return balance, nil
}
