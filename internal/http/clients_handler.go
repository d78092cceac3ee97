package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ClientsAPI interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, client domain.Client) error
	ListClientDebts(ctx context.Context, clientID string) ([]domain.Debt, error)
}

// ClientsHandler is a passthrough to the backend clients API; the terminal
// holds no client state of its own.
type ClientsHandler struct {
	api     ClientsAPI
	timeout time.Duration
}

func NewClientsHandler(api ClientsAPI, timeout time.Duration) *ClientsHandler {
	return &ClientsHandler{
		api:     api,
		timeout: timeout,
	}
}

func (h *ClientsHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	clients, err := h.api.ListClients(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, clients)
}

func (h *ClientsHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var client domain.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if client.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	created, err := h.api.CreateClient(ctx, client)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *ClientsHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	clientID := chi.URLParam(r, "client_id")

	var client domain.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.api.UpdateClient(ctx, clientID, client); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *ClientsHandler) ListClientDebts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	clientID := chi.URLParam(r, "client_id")
	debts, err := h.api.ListClientDebts(ctx, clientID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, debts)
}
