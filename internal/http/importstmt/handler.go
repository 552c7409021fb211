// Package importstmt exposes the statement import flow: upload files for
// a deduplicated preview, then confirm the rows the user selected.
package importstmt

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/fingerprint"
	"github.com/billfold/billfold/internal/http/auth"
	"github.com/billfold/billfold/internal/importer"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.preview)
	r.Post("/confirm", h.confirm)
}

type candidateDTO struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
	Category    string `json:"category"`
	Fingerprint string `json:"fingerprint"`
}

type previewResponse struct {
	New        []candidateDTO `json:"new"`
	Duplicates []candidateDTO `json:"duplicates"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	readers := make([]io.Reader, 0, len(files))

	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "failed to open uploaded file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()

		readers = append(readers, f)
	}

	preview, err := h.svc.Preview(r.Context(), userID, readers...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(previewResponse{
		New:        toDTOList(preview.New),
		Duplicates: toDTOList(preview.Duplicates),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type confirmRequest struct {
	Candidates []candidateDTO `json:"candidates"`
}

type confirmResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	selected := make([]fingerprint.Candidate, 0, len(req.Candidates))

	for _, dto := range req.Candidates {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			http.Error(w, "candidate date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		if dto.AmountCents <= 0 {
			http.Error(w, "candidate amount_cents must be positive", http.StatusBadRequest)
			return
		}

		selected = append(selected, fingerprint.NewCandidate(date, dto.AmountCents, dto.Note, dto.Category))
	}

	imported, err := h.svc.Confirm(r.Context(), userID, selected)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(confirmResponse{Imported: imported}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toDTOList(candidates []fingerprint.Candidate) []candidateDTO {
	dtos := make([]candidateDTO, len(candidates))
	for i, c := range candidates {
		dtos[i] = candidateDTO{
			Date:        c.Date.Format(time.DateOnly),
			AmountCents: c.AmountCents,
			Note:        c.Note,
			Category:    c.Category,
			Fingerprint: c.Fingerprint,
		}
	}

	return dtos
}
