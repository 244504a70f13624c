package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/dukerupert/cointrack/internal/registry"
)

type AuthHandler struct {
	registry *registry.Registry
	errs     errorWriter
}

func NewAuthHandler(reg *registry.Registry, logger *slog.Logger, exposeErrors bool) *AuthHandler {
	return &AuthHandler{
		registry: reg,
		errs:     errorWriter{logger: logger, exposeErrors: exposeErrors},
	}
}

type adminView struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Role       string       `json:"role"`
	FamilyID   *string      `json:"familyId"`
	FamilyCode string       `json:"familyCode"`
	Balance    money.Amount `json:"balance"`
}

type memberView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     string       `json:"role"`
	FamilyID *string      `json:"familyId"`
	Balance  money.Amount `json:"balance"`
}

type userView struct {
	memberView
	ProfilePhoto string `json:"profilePhoto"`
}

func newMemberView(u *model.User) memberView {
	return memberView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, FamilyID: u.FamilyID, Balance: u.Balance}
}

func (h *AuthHandler) AdminSignup(w http.ResponseWriter, r *http.Request) {
	var req registry.AdminSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	s, err := h.registry.AdminSignup(r.Context(), req)
	if err != nil {
		h.signupError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": s.Token,
		"admin": adminView{
			ID:         s.User.ID,
			Name:       s.User.Name,
			Email:      s.User.Email,
			Role:       s.User.Role,
			FamilyID:   s.User.FamilyID,
			FamilyCode: s.Family.FamilyCode,
			Balance:    s.User.Balance,
		},
	})
}

func (h *AuthHandler) MemberSignup(w http.ResponseWriter, r *http.Request) {
	var req registry.MemberSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	s, err := h.registry.MemberSignup(r.Context(), req)
	if err != nil {
		h.signupError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":  s.Token,
		"member": newMemberView(s.User),
	})
}

func (h *AuthHandler) signupError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *registry.ValidationError
	switch {
	case errors.As(err, &ve):
		h.errs.write(w, r, http.StatusBadRequest, ve.Message, nil)
	case errors.Is(err, registry.ErrEmailTaken):
		h.errs.write(w, r, http.StatusConflict, "Email already in use", nil)
	case errors.Is(err, registry.ErrFamilyCodeTaken):
		h.errs.write(w, r, http.StatusConflict, "familyCode already in use", nil)
	case errors.Is(err, registry.ErrInvalidFamilyCode):
		h.errs.write(w, r, http.StatusBadRequest, "Invalid familyCode", nil)
	default:
		h.errs.write(w, r, http.StatusInternalServerError, "Server error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req registry.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	s, err := h.registry.Login(r.Context(), req)
	if errors.Is(err, registry.ErrInvalidCredentials) {
		h.errs.write(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if err != nil {
		h.errs.write(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.Token,
		"user":  userView{memberView: newMemberView(s.User), ProfilePhoto: s.User.ProfilePhoto},
	})
}
