package places

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/metrics"
	"github.com/sayanchanda7290/roomradar/middleware"
	"github.com/sayanchanda7290/roomradar/models"
	"github.com/sayanchanda7290/roomradar/utils"
)

const requestTimeout = 5 * time.Second

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreatePlace handles POST /api/places
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, apperr.New(apperr.Unauthenticated, "Missing token"))
		return
	}

	var input models.PlaceInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	place, err := h.svc.Create(ctx, id, input)
	metrics.ObservePlaceWrite("create", err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	log.Printf("Place %s created by %s", place.ID.Hex(), id.UserID)
	utils.RespondWithJSON(w, http.StatusCreated, place)
}

// UpdatePlace handles PUT /api/places. The target id travels in the body.
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, apperr.New(apperr.Unauthenticated, "Missing token"))
		return
	}

	var input models.PlaceInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	place, err := h.svc.Update(ctx, id, input.ID, input)
	metrics.ObservePlaceWrite("update", err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, place)
}

// UserPlaces handles GET /api/user-places
func (h *Handler) UserPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, apperr.New(apperr.Unauthenticated, "Missing token"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	places, err := h.svc.ListByOwner(ctx, id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, places)
}

// GetPlace handles GET /api/places/:id
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	place, err := h.svc.Get(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, place)
}

// GetPlaces handles GET /api/places
func (h *Handler) GetPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	places, err := h.svc.ListAll(ctx)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, places)
}
