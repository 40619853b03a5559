/*
handlers.go - HTTP handlers for the validator-facing API

PURPOSE:
  Translates HTTP requests into engine operations and rejections into
  machine-readable error payloads. This layer owns persistence and
  metrics side effects; the engine stays pure.

ERROR MAPPING:
  invalid_account          -> 404
  insufficient_funds       -> 402
  duplicate_account        -> 409
  other rule violations    -> 422
  malformed request        -> 400
  everything else          -> 500

SEE ALSO:
  - server.go: Route wiring
  - dto.go: Wire shapes
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/fare-engine/fare"
	"github.com/warp/fare-engine/logging"
	"github.com/warp/fare-engine/metrics"
)

// Store is the persistence collaborator the handlers write through.
// May be nil, in which case the server is memory-only.
type Store interface {
	SaveAccount(ctx context.Context, snap fare.Snapshot) error
	AppendTrip(ctx context.Context, id fare.AccountID, ev fare.TripEvent) error
	AppendTicket(ctx context.Context, t *fare.Ticket) error
	ListTickets(ctx context.Context, id fare.AccountID) ([]fare.Ticket, error)
}

// =============================================================================
// HANDLER
// =============================================================================

type Handler struct {
	registry *fare.Registry
	router   *fare.Router
	clock    fare.Clock
	store    Store
	log      *logging.Logger
	metrics  metrics.Metrics
}

func NewHandler(registry *fare.Registry, router *fare.Router, clock fare.Clock, store Store, log *logging.Logger, m metrics.Metrics) *Handler {
	if log == nil {
		log = logging.NewNoOpLogger()
	}
	if m == nil {
		m = metrics.NoOp{}
	}
	return &Handler{
		registry: registry,
		router:   router,
		clock:    clock,
		store:    store,
		log:      log,
		metrics:  m,
	}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	if req.ID == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("id is required"))
		return
	}
	variant, err := fare.ParseVariant(req.Variant)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	acct := fare.NewAccount(fare.AccountID(req.ID), variant, fare.NewAmount(req.InitialBalance), h.log)
	if err := h.registry.Add(acct); err != nil {
		h.writeError(w, http.StatusConflict, err)
		return
	}
	h.metrics.SetAccounts(h.registry.Len())
	h.persistAccount(r.Context(), acct)

	h.writeJSON(w, http.StatusCreated, toAccountResponse(acct.Snapshot(h.clock.Now())))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	accounts := h.registry.List()
	out := make([]AccountResponse, len(accounts))
	for i, acct := range accounts {
		out[i] = toAccountResponse(acct.Snapshot(now))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.registry.Get(fare.AccountID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAccountResponse(acct.Snapshot(h.clock.Now())))
}

// =============================================================================
// TOP-UPS AND CHARGES
// =============================================================================

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	acct, err := h.registry.Get(fare.AccountID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}

	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("malformed request body"))
		return
	}

	if err := acct.TopUp(fare.NewAmount(req.Amount)); err != nil {
		h.metrics.TopUpRejected()
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	h.metrics.TopUpAccepted()
	h.persistAccount(r.Context(), acct)

	h.writeJSON(w, http.StatusOK, toAccountResponse(acct.Snapshot(h.clock.Now())))
}

func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	acct, err := h.registry.Get(fare.AccountID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}

	var req ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	cls, err := fare.ParseTariffClass(req.TariffClass)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	started := time.Now()
	ticket, err := h.router.ChargeTrip(acct, fare.LineID(req.Line), cls)
	h.metrics.ObserveChargeDuration(time.Since(started))
	if err != nil {
		h.metrics.ChargeRejected(string(acct.Variant()), fare.RejectionCode(err))
		h.writeError(w, chargeStatus(err), err)
		return
	}
	h.metrics.ChargeAccepted(string(ticket.Variant), ticket.IsTransfer)

	if h.store != nil {
		ctx := r.Context()
		events := acct.TripEvents()
		if err := h.store.AppendTrip(ctx, acct.ID(), events[len(events)-1]); err != nil {
			h.log.Error("persist trip failed", zap.Error(err))
		}
		if err := h.store.AppendTicket(ctx, ticket); err != nil {
			h.log.Error("persist ticket failed", zap.Error(err))
		}
		h.persistAccount(ctx, acct)
	}

	h.writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

// =============================================================================
// QUERIES
// =============================================================================

func (h *Handler) TripStatus(w http.ResponseWriter, r *http.Request) {
	acct, err := h.registry.Get(fare.AccountID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	cls := fare.TariffUrban
	if q := r.URL.Query().Get("tariff_class"); q != "" {
		cls, err = fare.ParseTariffClass(q)
		if err != nil {
			h.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}
	status, err := h.router.TripStatus(acct, cls)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, TripStatusResponse{
		TripsToday:    status.TripsToday,
		MayTravel:     status.MayTravel,
		SuggestedFare: status.SuggestedFare.Value.StringFixed(2),
	})
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	id := fare.AccountID(chi.URLParam(r, "id"))
	if _, err := h.registry.Get(id); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	if h.store == nil {
		h.writeJSON(w, http.StatusOK, []TicketResponse{})
		return
	}
	tickets, err := h.store.ListTickets(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = toTicketResponse(&tickets[i])
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTariffs(w http.ResponseWriter, r *http.Request) {
	tariffs := h.router.Tariffs()
	urban, _ := tariffs.Base(fare.TariffUrban)
	interurban, _ := tariffs.Base(fare.TariffInterurban)

	valid := fare.ValidTopUpAmounts()
	topUps := make([]string, len(valid))
	for i, v := range valid {
		topUps[i] = v.Value.StringFixed(2)
	}

	h.writeJSON(w, http.StatusOK, TariffsResponse{
		Urban:        urban.Value.StringFixed(2),
		Interurban:   interurban.Value.StringFixed(2),
		ValidTopUps:  topUps,
		TransferMins: int(fare.TransferWindowDuration / time.Minute),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) persistAccount(ctx context.Context, acct *fare.Account) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveAccount(ctx, acct.Snapshot(h.clock.Now())); err != nil {
		h.log.Error("persist account failed",
			zap.String("account", string(acct.ID())), zap.Error(err))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: fare.RejectionCode(err)})
}

func chargeStatus(err error) int {
	switch {
	case errors.Is(err, fare.ErrInvalidAccount):
		return http.StatusNotFound
	case errors.Is(err, fare.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case fare.IsClientError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
