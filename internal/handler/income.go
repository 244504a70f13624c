package handler

import (
	"net/http"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/ledger"
)

func (h *LedgerHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req ledger.IncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	income, err := h.ledger.RecordIncome(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		h.ledgerError(w, r, err, "Failed to add income")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Income added successfully",
		"income":  income,
	})
}
