package handler

import (
	"net/http"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/ledger"
)

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := ledger.ParsePage(q.Get("limit"), q.Get("skip"))

	result, err := h.ledger.ListTransactions(r.Context(), auth.UserID(r.Context()), page)
	if err != nil {
		h.errs.write(w, r, http.StatusInternalServerError, "Failed to fetch transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Transactions fetched successfully",
		"data":       result.Data,
		"pagination": result.Pagination,
	})
}
