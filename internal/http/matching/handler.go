package matching

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/http/auth"
	"github.com/billfold/billfold/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Note     string           `json:"note"`
	Category expense.Category `json:"category"`
	Matched  bool             `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	note := r.URL.Query().Get("note")
	if note == "" {
		http.Error(w, "note query parameter is required", http.StatusBadRequest)
		return
	}

	category, matched, err := h.svc.Suggest(r.Context(), userID, note)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		Note:     note,
		Category: category,
		Matched:  matched,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	NotePattern string `json:"note_pattern"`
	Category    string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.NotePattern == "" || req.Category == "" {
		http.Error(w, "note_pattern and category are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), userID, req.NotePattern, expense.ParseCategory(req.Category)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
