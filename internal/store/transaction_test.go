package store

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
)

func TestTransactionCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	admin, _ := seedFamily(t, db, "admin@example.com", "ABC123")
	ts := NewTransactionStore(db)

	first := &model.Transaction{Type: model.TransactionIncome, Title: "Salary", Amount: money.MustParse("500"),
		RelatedID: "inc-1", BalanceAfter: money.MustParse("600"), MemberID: admin.ID, FamilyID: admin.FamilyID,
		Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	second := &model.Transaction{Type: model.TransactionExpense, Title: "Rent", Amount: money.MustParse("300"), Category: "Rent",
		RelatedID: "exp-1", BalanceAfter: money.MustParse("300"), MemberID: admin.ID, FamilyID: admin.FamilyID,
		Date: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)}
	for _, txn := range []*model.Transaction{first, second} {
		if err := ts.Create(ctx, txn); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	got, err := ts.GetByRelatedID(ctx, "exp-1")
	if err != nil {
		t.Fatalf("get by related id: %v", err)
	}
	if got == nil || got.BalanceAfter.String() != "300.00" || got.Category != "Rent" {
		t.Fatalf("transaction = %+v", got)
	}

	list, err := ts.ListByMember(ctx, admin.ID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].RelatedID != "exp-1" {
		t.Fatalf("list = %+v, want newest first", list)
	}
	n, _ := ts.CountByMember(ctx, admin.ID)
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestTransactionTypeConstraint(t *testing.T) {
	db := setupTestDB(t)
	admin, _ := seedFamily(t, db, "admin@example.com", "ABC123")

	err := NewTransactionStore(db).Create(context.Background(), &model.Transaction{Type: "refund", Title: "x",
		Amount: money.MustParse("1"), RelatedID: "r", MemberID: admin.ID, Date: time.Now()})
	if err == nil {
		t.Error("expected check constraint error for unknown type")
	}
}

func TestIncomeCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	admin, f := seedFamily(t, db, "admin@example.com", "ABC123")
	is := NewIncomeStore(db)

	in := &model.Income{Title: "Salary", Amount: money.MustParse("1000.1"), Date: time.Now(), MemberID: admin.ID, FamilyID: f.ID}
	if err := is.Create(ctx, in); err != nil {
		t.Fatalf("create income: %v", err)
	}
	got, err := is.GetByID(ctx, in.ID)
	if err != nil {
		t.Fatalf("get income: %v", err)
	}
	if got.Amount.String() != "1000.10" || got.FamilyID != f.ID {
		t.Errorf("income = %+v", got)
	}

	missing, err := is.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetByID(nope) = %v, %v; want nil, nil", missing, err)
	}
}
