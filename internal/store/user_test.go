package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
)

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	u, err := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Role: model.RoleMember, Balance: money.MustParse("12.5")})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Role != model.RoleMember {
		t.Errorf("role = %q, want %q", u.Role, model.RoleMember)
	}
	if u.Balance.String() != "12.50" {
		t.Errorf("balance = %s, want 12.50", u.Balance)
	}
	if u.HasFamily() {
		t.Error("new user should have no family")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, NewUser{Name: "Alice2", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember}); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Name != "Alice" {
		t.Errorf("name = %q, want %q", u.Name, "Alice")
	}
	if u.PasswordHash != "h" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "h")
	}

	missing, err := us.GetByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for nonexistent email")
	}
}

func TestUserAdjustBalance(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ctx := context.Background()

	u, _ := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember, Balance: money.MustParse("10")})

	got, err := us.AdjustBalance(ctx, u.ID, money.MustParse("-2.35"))
	if err != nil {
		t.Fatalf("adjust balance: %v", err)
	}
	if got.String() != "7.65" {
		t.Errorf("balance = %s, want 7.65", got)
	}

	reloaded, _ := us.GetByID(ctx, u.ID)
	if reloaded.Balance.String() != "7.65" {
		t.Errorf("stored balance = %s, want 7.65", reloaded.Balance)
	}

	if _, err := us.AdjustBalance(ctx, "missing", money.MustParse("1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserUpdateProfilePhoto(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	u, _ := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember})

	updated, err := us.UpdateProfilePhoto(ctx, u.ID, "https://img.example.com/a.png")
	if err != nil {
		t.Fatalf("update photo: %v", err)
	}
	if updated.ProfilePhoto != "https://img.example.com/a.png" {
		t.Errorf("photo = %q", updated.ProfilePhoto)
	}

	if _, err := us.UpdateProfilePhoto(ctx, "missing", "https://x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserSetFamilyRequiresFamily(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	u, _ := us.Create(ctx, NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: model.RoleMember})
	if err := us.SetFamily(ctx, u.ID, "no-such-family"); err == nil {
		t.Error("expected foreign key error")
	}
}
