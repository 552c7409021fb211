package recurring

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

const defaultUpcomingDays = 30

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/upcoming", h.upcoming)
	r.Post("/autopost", h.autoPost)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/active", h.setActive)
	r.Post("/{id}/skip", h.skip)
	r.Delete("/{id}", h.delete)
}

type createRuleRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Note        string `json:"note"`
	Cadence     string `json:"cadence"`
	StartDate   string `json:"start_date"`
	Active      *bool  `json:"active,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.svc.Create(r.Context(), userID, recurring.CreateParams{
		AmountCents: req.AmountCents,
		Category:    expense.ParseCategory(req.Category),
		Note:        req.Note,
		Cadence:     schedule.ParseCadence(req.Cadence),
		StartDate:   startDate,
		Active:      active,
	})
	if err != nil {
		if errors.Is(err, recurring.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	rules, err := h.svc.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(rules)); err != nil {
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

	rule, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, "recurring rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateRuleRequest struct {
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Category    *string `json:"category,omitempty"`
	Note        *string `json:"note,omitempty"`
	Cadence     *string `json:"cadence,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, "recurring rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.AmountCents != nil {
		rule.AmountCents = *req.AmountCents
	}

	if req.Category != nil {
		rule.Category = expense.ParseCategory(*req.Category)
	}

	if req.Note != nil {
		rule.Note = *req.Note
	}

	if req.Cadence != nil {
		rule.Cadence = schedule.ParseCadence(*req.Cadence)
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		rule.StartDate = startDate
	}

	if err := h.svc.Update(r.Context(), rule); err != nil {
		if errors.Is(err, recurring.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetActive(r.Context(), userID, id, req.Active); err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, "recurring rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type skipRequest struct {
	Date string `json:"date"`
}

func (h *Handler) skip(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	if err := h.svc.Skip(r.Context(), userID, id, date); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Delete(r.Context(), userID, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, "recurring rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if result.CleanupWarning {
		slog.Error("recurring rule deleted but cleanup left leftovers", "rule_id", id)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(deleteResponse{
		DeletedFutureOccurrences: result.DeletedFutureOccurrences,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type autoPostRequest struct {
	Month string `json:"month,omitempty"`
}

type autoPostResponse struct {
	Month   string `json:"month"`
	Created int    `json:"created"`
}

// autoPost materializes the current month's due occurrences. The client
// calls it on app open; repeat calls are harmless.
func (h *Handler) autoPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	now := time.Now().UTC()

	req := autoPostRequest{Month: schedule.MonthKey(now)}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if _, err := schedule.ParseMonthKey(req.Month); err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	created, err := h.svc.AutoPost(r.Context(), userID, req.Month, now)
	if err != nil {
		// Partial failures still report what was created.
		slog.Error("auto-post finished with errors", "month", req.Month, "created", created, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(autoPostResponse{Month: req.Month, Created: created}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	days := defaultUpcomingDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}

		days = n
	}

	bills, err := h.svc.Upcoming(r.Context(), userID, time.Now().UTC(), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toUpcomingList(bills)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
