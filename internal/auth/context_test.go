package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/cointrack/internal/model"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:   "u1",
		FamilyID: "f1",
		Role:     model.RoleAdmin,
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "u1")
	}
	if got.FamilyID != "f1" {
		t.Errorf("FamilyID = %q, want %q", got.FamilyID, "f1")
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", got.Role, model.RoleAdmin)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestFamilyID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{FamilyID: "f42"})
	if FamilyID(ctx) != "f42" {
		t.Errorf("FamilyID = %q, want f42", FamilyID(ctx))
	}
	if FamilyID(context.Background()) != "" {
		t.Error("expected empty family for missing context")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "u7"})
	if UserID(ctx) != "u7" {
		t.Errorf("UserID = %q, want u7", UserID(ctx))
	}
	if UserID(context.Background()) != "" {
		t.Error("expected empty user for missing context")
	}
}
