package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dukerupert/cointrack/internal/database"
	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedFamily creates an admin with a family and returns both.
func seedFamily(t *testing.T, db *sql.DB, email, code string) (*model.User, *model.Family) {
	t.Helper()
	ctx := context.Background()
	us := NewUserStore(db)
	fs := NewFamilyStore(db)

	u, err := us.Create(ctx, NewUser{Name: "Admin", Email: email, PasswordHash: "hash", Role: model.RoleAdmin, Balance: money.MustParse("100")})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	f, err := fs.Create(ctx, "Fam", code, u.ID, money.MustParse("100"))
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if err := fs.AddMember(ctx, f.ID, u.ID); err != nil {
		t.Fatalf("add admin member: %v", err)
	}
	if err := us.SetFamily(ctx, u.ID, f.ID); err != nil {
		t.Fatalf("set family: %v", err)
	}
	u, _ = us.GetByID(ctx, u.ID)
	return u, f
}
