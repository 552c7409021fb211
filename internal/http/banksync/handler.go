package banksync

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/banksync"
	"github.com/billfold/billfold/internal/http/auth"
)

type Handler struct {
	svc *banksync.Service
}

func NewHandler(svc *banksync.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/link-token", h.linkToken)
	r.Post("/exchange", h.exchange)
	r.Get("/connections", h.connections)
	r.Post("/sync", h.sync)
	r.Delete("/connections/{id}", h.disconnect)
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

func (h *Handler) linkToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	token, err := h.svc.LinkToken(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(linkTokenResponse{LinkToken: token}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type exchangeRequest struct {
	PublicToken     string                   `json:"public_token"`
	InstitutionName string                   `json:"institution_name"`
	Accounts        []banksync.LinkedAccount `json:"accounts"`
}

func (h *Handler) exchange(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.PublicToken == "" {
		http.Error(w, "public_token is required", http.StatusBadRequest)
		return
	}

	conn, err := h.svc.Exchange(r.Context(), userID, req.PublicToken, req.InstitutionName, req.Accounts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(conn)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) connections(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	connections, err := h.svc.Connections(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(connections)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type syncRequest struct {
	ConnectionID string `json:"connection_id,omitempty"`
}

type syncResponse struct {
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	LastSyncAt time.Time `json:"last_sync_at"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req syncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.Sync(r.Context(), userID, req.ConnectionID)
	if err != nil {
		if errors.Is(err, banksync.ErrNotFound) {
			http.Error(w, "connection not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(syncResponse{
		Imported:   result.Imported,
		Skipped:    result.Skipped,
		Errors:     result.Errors,
		LastSyncAt: result.LastSyncAt,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "invalid connection id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Disconnect(r.Context(), userID, id); err != nil {
		if errors.Is(err, banksync.ErrNotFound) {
			http.Error(w, "connection not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type connectionResponse struct {
	ID              string                   `json:"id"`
	Provider        string                   `json:"provider"`
	InstitutionName string                   `json:"institution_name"`
	Status          string                   `json:"status"`
	Accounts        []banksync.LinkedAccount `json:"accounts,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	LastSyncedAt    *time.Time               `json:"last_synced_at,omitempty"`
}

func toResponse(c *banksync.Connection) connectionResponse {
	return connectionResponse{
		ID:              c.ID,
		Provider:        c.Provider,
		InstitutionName: c.InstitutionName,
		Status:          c.Status,
		Accounts:        c.Accounts,
		CreatedAt:       c.CreatedAt,
		LastSyncedAt:    c.LastSyncedAt,
	}
}

func toResponseList(connections []*banksync.Connection) []connectionResponse {
	resp := make([]connectionResponse, len(connections))
	for i, c := range connections {
		resp[i] = toResponse(c)
	}

	return resp
}
