package handler

import (
	"encoding/json"
	"net/http"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
	"roomly/pkg/model"

	"roomly/internal/reservations/service"

	"github.com/julienschmidt/httprouter"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/reservations", h.Reserve)
	router.HandlerFunc(http.MethodGet, "/api/v1/reservations", h.ListMine)
	router.HandlerFunc(http.MethodGet, "/api/v1/reservations/:id", h.GetByID)
	router.HandlerFunc(http.MethodDelete, "/api/v1/reservations/:id", h.Cancel)
}

// Reserve answers 201 for a new booking and 200 for an idempotent replay of
// a previous one.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}
	req.UserID = userID
	req.IdempotencyKey = r.Header.Get(idempotencyKeyHeader)

	result, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if result.Replayed {
		if err := httputil.WriteSuccess(w, result.Booking); err != nil {
			h.log.Error("Failed to write response", "error", err)
		}
		return
	}
	if err := httputil.WriteCreated(w, result.Booking); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if booking.UserID != userID {
		h.writeError(w, apperrors.NotFoundWithID("Booking", id))
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	bookings, total, err := h.service.GetByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")

	booking, err := h.service.Cancel(r.Context(), id, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
