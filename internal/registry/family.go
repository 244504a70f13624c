package registry

import (
	"context"
	"time"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
)

type FamilyDetails struct {
	ID           string         `json:"familyId"`
	FamilyName   string         `json:"familyName"`
	FamilyCode   string         `json:"familyCode"`
	AdminID      string         `json:"adminId"`
	Balance      money.Amount   `json:"balance"`
	Admin        *model.Member  `json:"admin"`
	Members      []model.Member `json:"members"`
	TotalMembers int            `json:"totalMembers"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type FamilyMembers struct {
	Admin        *model.Member  `json:"admin"`
	Members      []model.Member `json:"members"`
	TotalMembers int            `json:"totalMembers"`
}

func (r *Registry) family(ctx context.Context, familyID string) (*model.Family, error) {
	if familyID == "" {
		return nil, ErrNoFamily
	}
	f, err := r.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNoFamily
	}
	return f, nil
}

// FamilyDetails describes the family with its admin split out from the
// other members. TotalMembers counts the admin and members once each.
func (r *Registry) FamilyDetails(ctx context.Context, familyID string) (*FamilyDetails, error) {
	f, err := r.family(ctx, familyID)
	if err != nil {
		return nil, err
	}
	roster, err := r.roster(ctx, f)
	if err != nil {
		return nil, err
	}
	return &FamilyDetails{
		ID:           f.ID,
		FamilyName:   f.FamilyName,
		FamilyCode:   f.FamilyCode,
		AdminID:      f.AdminID,
		Balance:      f.Balance,
		Admin:        roster.Admin,
		Members:      roster.Members,
		TotalMembers: roster.TotalMembers,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}, nil
}

// FamilyMembers lists the admin separately from the rest of the family.
func (r *Registry) FamilyMembers(ctx context.Context, familyID string) (*FamilyMembers, error) {
	f, err := r.family(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return r.roster(ctx, f)
}

func (r *Registry) roster(ctx context.Context, f *model.Family) (*FamilyMembers, error) {
	all, err := r.families.ListMembers(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	out := &FamilyMembers{Members: []model.Member{}, TotalMembers: len(all)}
	for i := range all {
		if all[i].ID == f.AdminID {
			out.Admin = &all[i]
			continue
		}
		out.Members = append(out.Members, all[i])
	}
	return out, nil
}

// MemberProfile returns one member of the caller's family.
func (r *Registry) MemberProfile(ctx context.Context, familyID, memberID string) (*model.Member, error) {
	f, err := r.family(ctx, familyID)
	if err != nil {
		return nil, err
	}

	target, err := r.users.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}

	ok, err := r.families.IsMember(ctx, f.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInFamily
	}
	return &model.Member{User: *target, JoinedAt: target.CreatedAt}, nil
}

// FamilyBalance returns the stored family balance and the member balances
// summed now. The two totals are reported as they are.
func (r *Registry) FamilyBalance(ctx context.Context, familyID string) (*model.FamilyBalance, error) {
	f, err := r.family(ctx, familyID)
	if err != nil {
		return nil, err
	}
	members, err := r.families.ListMembers(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	out := &model.FamilyBalance{
		FamilyID:           f.ID,
		FamilyName:         f.FamilyName,
		TotalFamilyBalance: f.Balance,
		MemberBalances:     make([]model.MemberBalance, 0, len(members)),
	}
	total := money.Zero
	for _, m := range members {
		total = total.Add(m.Balance)
		out.MemberBalances = append(out.MemberBalances, model.MemberBalance{
			MemberID:     m.ID,
			Name:         m.Name,
			Email:        m.Email,
			ProfilePhoto: m.ProfilePhoto,
			Balance:      m.Balance,
		})
	}
	out.TotalMembersBalance = total
	return out, nil
}
