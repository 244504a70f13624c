package model

import (
	"time"

	"github.com/dukerupert/cointrack/internal/money"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	FamilyID     *string      `json:"familyId"`
	Balance      money.Amount `json:"balance"`
	ProfilePhoto string       `json:"profilePhoto"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HasFamily reports whether the user has created or joined a family.
func (u *User) HasFamily() bool {
	return u.FamilyID != nil && *u.FamilyID != ""
}

// FamilyIDOrEmpty returns the family id or "" when the user has none.
func (u *User) FamilyIDOrEmpty() string {
	if u.FamilyID == nil {
		return ""
	}
	return *u.FamilyID
}
