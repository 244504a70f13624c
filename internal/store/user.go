package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/google/uuid"
)

type UserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

// WithTx returns a UserStore bound to tx.
func (s *UserStore) WithTx(tx *sql.Tx) *UserStore {
	return &UserStore{db: tx}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var familyID sql.NullString
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &familyID,
		&u.Balance, &u.ProfilePhoto, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.FamilyID = stringPtr(familyID)
	return &u, nil
}

const userCols = `id, name, email, password_hash, role, family_id, balance, profile_photo, created_at, updated_at`

type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	FamilyID     *string
	Balance      money.Amount
}

func (s *UserStore) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	id := uuid.NewString()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, family_id, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nu.Name, nu.Email, nu.PasswordHash, nu.Role, nullString(nu.FamilyID), nu.Balance, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetFamily(ctx context.Context, id, familyID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET family_id = ?, updated_at = ? WHERE id = ?`,
		familyID, now(), id,
	)
	if err != nil {
		return fmt.Errorf("set user family: %w", err)
	}
	return requireRow(res, "set user family")
}

func (s *UserStore) UpdateProfilePhoto(ctx context.Context, id, url string) (*model.User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET profile_photo = ?, updated_at = ? WHERE id = ?`,
		url, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile photo: %w", err)
	}
	if err := requireRow(res, "update profile photo"); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AdjustBalance adds delta to the user's balance and returns the new balance.
// Callers run it inside a write transaction so the read and the update see
// the same row version.
func (s *UserStore) AdjustBalance(ctx context.Context, id string, delta money.Amount) (money.Amount, error) {
	var balance money.Amount
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return money.Zero, fmt.Errorf("adjust user balance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return money.Zero, fmt.Errorf("read user balance: %w", err)
	}

	balance = balance.Add(delta)
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET balance = ?, updated_at = ? WHERE id = ?`,
		balance, now(), id,
	); err != nil {
		return money.Zero, fmt.Errorf("update user balance: %w", err)
	}
	return balance, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
