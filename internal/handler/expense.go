package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/ledger"
)

// LedgerHandler serves expense, income and transaction routes.
type LedgerHandler struct {
	ledger *ledger.Ledger
	errs   errorWriter
}

func NewLedgerHandler(l *ledger.Ledger, logger *slog.Logger, exposeErrors bool) *LedgerHandler {
	return &LedgerHandler{
		ledger: l,
		errs:   errorWriter{logger: logger, exposeErrors: exposeErrors},
	}
}

func (h *LedgerHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ledger.ExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	expense, err := h.ledger.RecordExpense(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		h.ledgerError(w, r, err, "Failed to add expense")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Expense added successfully",
		"expense": expense,
	})
}

func (h *LedgerHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := ledger.ParsePage(q.Get("limit"), q.Get("skip"))

	result, err := h.ledger.ListExpenses(r.Context(), auth.UserID(r.Context()), strings.TrimSpace(q.Get("category")), page)
	if err != nil {
		h.errs.write(w, r, http.StatusInternalServerError, "Failed to fetch expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Expenses fetched successfully",
		"data":       result.Data,
		"pagination": result.Pagination,
	})
}

func (h *LedgerHandler) ledgerError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	var ve *ledger.ValidationError
	switch {
	case errors.As(err, &ve):
		h.errs.write(w, r, http.StatusBadRequest, ve.Message, nil)
	case errors.Is(err, ledger.ErrNoFamily):
		h.errs.write(w, r, http.StatusBadRequest, "User is not associated with any family", nil)
	case errors.Is(err, ledger.ErrUserNotFound):
		h.errs.write(w, r, http.StatusNotFound, "User not found", nil)
	default:
		h.errs.write(w, r, http.StatusInternalServerError, failure, err)
	}
}
