package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/http/auth"
	"github.com/billfold/billfold/internal/recurring"
	"github.com/billfold/billfold/internal/schedule"
)

const defaultRecentLimit = 20

type Handler struct {
	svc          *expense.Service
	recurringSvc *recurring.Service
}

func NewHandler(svc *expense.Service, recurringSvc *recurring.Service) *Handler {
	return &Handler{svc: svc, recurringSvc: recurringSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/recent", h.recent)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Note        string `json:"note"`
	Date        string `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.AmountCents <= 0 {
		http.Error(w, "amount_cents must be positive", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Create(r.Context(), userID, expense.CreateParams{
		AmountCents: req.AmountCents,
		Category:    expense.ParseCategory(req.Category),
		Note:        req.Note,
		Date:        date,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	month := r.URL.Query().Get("month")
	if _, err := schedule.ParseMonthKey(month); err != nil {
		http.Error(w, "month query parameter must be YYYY-MM", http.StatusBadRequest)
		return
	}

	expenses, err := h.svc.ListByMonth(r.Context(), userID, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(expenses)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}

		limit = n
	}

	expenses, err := h.svc.ListRecent(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(expenses)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	month := r.URL.Query().Get("month")
	if _, err := schedule.ParseMonthKey(month); err != nil {
		http.Error(w, "month query parameter must be YYYY-MM", http.StatusBadRequest)
		return
	}

	summary, err := h.svc.GetSummary(r.Context(), userID, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(month, summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateExpenseRequest struct {
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Category    *string `json:"category,omitempty"`
	Note        *string `json:"note,omitempty"`
	Date        *string `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.AmountCents != nil {
		if *req.AmountCents <= 0 {
			http.Error(w, "amount_cents must be positive", http.StatusBadRequest)
			return
		}

		e.AmountCents = *req.AmountCents
	}

	if req.Category != nil {
		e.Category = expense.ParseCategory(*req.Category)
	}

	if req.Note != nil {
		e.Note = *req.Note
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		e.Date = date
	}

	if err := h.svc.Update(r.Context(), e); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	// Deleting a materialized occurrence leaves a skip marker so the
	// next auto-post does not bring it straight back.
	if deleted.RuleID != nil && deleted.OccurrenceKey != "" {
		if err := h.recurringSvc.Skip(r.Context(), userID, *deleted.RuleID, deleted.Date); err != nil {
			slog.Error("failed to record skip marker for deleted occurrence",
				"expense_id", deleted.ID, "rule_id", *deleted.RuleID, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
