package model

import (
	"time"

	"github.com/dukerupert/cointrack/internal/money"
)

type Family struct {
	ID         string       `json:"id"`
	FamilyName string       `json:"familyName"`
	FamilyCode string       `json:"familyCode"`
	AdminID    string       `json:"adminId"`
	Balance    money.Amount `json:"balance"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Member is a user as seen through a family's member set.
type Member struct {
	User
	JoinedAt time.Time `json:"joinedAt"`
}

// MemberBalance is one row of the family balance breakdown.
type MemberBalance struct {
	MemberID     string       `json:"memberId"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	ProfilePhoto string       `json:"profilePhoto"`
	Balance      money.Amount `json:"balance"`
}

// FamilyBalance holds the stored family balance next to the member sum
// computed at read time. The two are not reconciled.
type FamilyBalance struct {
	FamilyID            string          `json:"familyId"`
	FamilyName          string          `json:"familyName"`
	TotalFamilyBalance  money.Amount    `json:"totalFamilyBalance"`
	TotalMembersBalance money.Amount    `json:"totalMembersBalance"`
	MemberBalances      []MemberBalance `json:"memberBalances"`
}
