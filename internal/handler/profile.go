package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/registry"
)

type ProfileHandler struct {
	registry *registry.Registry
	errs     errorWriter
}

func NewProfileHandler(reg *registry.Registry, logger *slog.Logger, exposeErrors bool) *ProfileHandler {
	return &ProfileHandler{
		registry: reg,
		errs:     errorWriter{logger: logger, exposeErrors: exposeErrors},
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.registry.Profile(r.Context(), auth.UserID(r.Context()))
	if errors.Is(err, registry.ErrUserNotFound) {
		h.errs.write(w, r, http.StatusNotFound, "User not found", nil)
		return
	}
	if err != nil {
		h.errs.write(w, r, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile retrieved successfully",
		"user":    user,
	})
}

type photoRequest struct {
	PhotoURL string `json:"photoUrl"`
}

func (h *ProfileHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	user, err := h.registry.UpdateProfilePhoto(r.Context(), auth.UserID(r.Context()), req.PhotoURL)
	var ve *registry.ValidationError
	switch {
	case errors.As(err, &ve):
		h.errs.write(w, r, http.StatusBadRequest, ve.Message, nil)
		return
	case errors.Is(err, registry.ErrUserNotFound):
		h.errs.write(w, r, http.StatusNotFound, "User not found", nil)
		return
	case err != nil:
		h.errs.write(w, r, http.StatusInternalServerError, "Failed to update profile photo", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile photo updated successfully",
		"user":    user,
	})
}
