package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"roomly/internal/rooms/service"
	"roomly/pkg/dateutil"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
	protect func(http.HandlerFunc) http.HandlerFunc
}

// NewRoomHandler wires the room routes. protect guards the mutating routes;
// search and reads stay public.
func NewRoomHandler(service service.RoomService, log *logger.Logger, protect func(http.HandlerFunc) http.HandlerFunc) *RoomHandler {
	if protect == nil {
		protect = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return &RoomHandler{
		service: service,
		log:     log,
		protect: protect,
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/rooms", h.protect(h.Create))
	router.HandlerFunc(http.MethodGet, "/api/v1/rooms", h.List)
	router.HandlerFunc(http.MethodGet, "/api/v1/rooms/search", h.Search)
	router.HandlerFunc(http.MethodGet, "/api/v1/rooms/id/:id", h.GetByID)
	router.HandlerFunc(http.MethodPost, "/api/v1/rooms/id/:id/availability", h.protect(h.SeedAvailability))
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &room)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")

	room, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	rooms, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

// Search expects start and end as YYYY-MM-DD query parameters; qty defaults
// to 1.
func (h *RoomHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := dateutil.ParseDate(query.Get("start"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("start must be a valid YYYY-MM-DD date"))
		return
	}
	end, err := dateutil.ParseDate(query.Get("end"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("end must be a valid YYYY-MM-DD date"))
		return
	}

	quantity := 1
	if raw := query.Get("qty"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("qty must be an integer"))
			return
		}
	}

	results, err := h.service.Search(r.Context(), start, end, quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *RoomHandler) SeedAvailability(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")

	var req model.SeedAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	dates, err := h.service.SeedAvailability(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, map[string]any{
		"room_id":      id,
		"dates_seeded": dates,
		"units":        req.Units,
	}); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}
