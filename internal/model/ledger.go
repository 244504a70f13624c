package model

import (
	"time"

	"github.com/dukerupert/cointrack/internal/money"
)

const (
	TransactionExpense = "expense"
	TransactionIncome  = "income"
)

type Expense struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Amount    money.Amount `json:"amount"`
	Category  string       `json:"category"`
	Date      time.Time    `json:"date"`
	MemberID  string       `json:"memberId"`
	FamilyID  *string      `json:"familyId"`
	CreatedAt time.Time    `json:"-"`
}

type Income struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Amount    money.Amount `json:"amount"`
	Date      time.Time    `json:"date"`
	MemberID  string       `json:"memberId"`
	FamilyID  string       `json:"familyId"`
	CreatedAt time.Time    `json:"-"`
}

// Transaction is the write-once snapshot appended for every ledger entry.
type Transaction struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Amount       money.Amount `json:"amount"`
	Category     string       `json:"category,omitempty"`
	RelatedID    string       `json:"relatedId"`
	BalanceAfter money.Amount `json:"balanceAfter"`
	MemberID     string       `json:"memberId"`
	FamilyID     *string      `json:"familyId"`
	Date         time.Time    `json:"date"`
	CreatedAt    time.Time    `json:"createdAt"`
}
