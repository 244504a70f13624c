package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/registry"
)

type FamilyHandler struct {
	registry *registry.Registry
	errs     errorWriter
}

func NewFamilyHandler(reg *registry.Registry, logger *slog.Logger, exposeErrors bool) *FamilyHandler {
	return &FamilyHandler{
		registry: reg,
		errs:     errorWriter{logger: logger, exposeErrors: exposeErrors, envelope: true},
	}
}

func envelope(message string, data any) map[string]any {
	return map[string]any{"success": true, "message": message, "data": data}
}

func (h *FamilyHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.registry.FamilyDetails(r.Context(), auth.FamilyID(r.Context()))
	if err != nil {
		h.familyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("Family details retrieved successfully", details))
}

func (h *FamilyHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.registry.FamilyMembers(r.Context(), auth.FamilyID(r.Context()))
	if err != nil {
		h.familyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("Family members retrieved successfully", members))
}

func (h *FamilyHandler) Member(w http.ResponseWriter, r *http.Request) {
	member, err := h.registry.MemberProfile(r.Context(), auth.FamilyID(r.Context()), r.PathValue("memberId"))
	if err != nil {
		h.familyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("Member profile retrieved successfully", member))
}

func (h *FamilyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.registry.FamilyBalance(r.Context(), auth.FamilyID(r.Context()))
	if err != nil {
		h.familyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope("Family balance retrieved successfully", balance))
}

func (h *FamilyHandler) familyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrNoFamily):
		h.errs.write(w, r, http.StatusNotFound, "User is not part of any family", nil)
	case errors.Is(err, registry.ErrMemberNotFound):
		h.errs.write(w, r, http.StatusNotFound, "Member not found", nil)
	case errors.Is(err, registry.ErrNotInFamily):
		h.errs.write(w, r, http.StatusForbidden, "Unauthorized: Member not part of your family", nil)
	default:
		h.errs.write(w, r, http.StatusInternalServerError, "Internal server error", err)
	}
}
