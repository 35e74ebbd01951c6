package booking

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
	"github.com/sayanchanda7290/roomradar/session"
	"github.com/sayanchanda7290/roomradar/utils"
)

const requestTimeout = 5 * time.Second

// PlaceOwners confirms the caller owns a place before opening its live feed.
type PlaceOwners interface {
	AuthorizeOwner(ctx context.Context, caller session.Identity, id string) (*models.Place, error)
}

type Handler struct {
	svc      *Service
	receipts *Receipts
	hub      *Hub
	owners   PlaceOwners
}

func NewHandler(svc *Service, receipts *Receipts, hub *Hub, owners PlaceOwners) *Handler {
	return &Handler{svc: svc, receipts: receipts, hub: hub, owners: owners}
}

func caller(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, apperr.New(apperr.Unauthenticated, "Missing token"))
	}
	return id, ok
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var input models.BookingInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.svc.Create(ctx, id, input)
	metrics.ObserveBooking(err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	log.Printf("Booking %s created by %s for place %s", b.ID.Hex(), id.UserID, b.Place.Hex())
	utils.RespondWithJSON(w, http.StatusCreated, b)
}

// GetBookings handles GET /api/bookings
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	bookings, err := h.svc.ListMine(ctx, id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// GetReceipt handles GET /api/bookings/:id/receipt
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.svc.Get(ctx, id, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	pdf, err := h.receipts.Render(b)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+b.ID.Hex()+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// VerifyReceipt handles POST /api/bookings/verify-receipt. The body carries the
// payload scanned from a receipt QR code.
func (h *Handler) VerifyReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var input struct {
		Payload string `json:"payload"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.checkReceipt(ctx, id, input.Payload)
	metrics.ObserveReceiptCheck(err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"isValid": true, "booking": b})
}

func (h *Handler) checkReceipt(ctx context.Context, id session.Identity, payload string) (*models.BookingWithPlace, error) {
	bookingID, userID, err := h.receipts.Verify(payload)
	if err != nil {
		return nil, err
	}
	return h.svc.CheckReceipt(ctx, id, bookingID, userID)
}

// LiveBookings handles GET /api/places/:id/bookings/live. Only the place
// owner may subscribe.
func (h *Handler) LiveBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	place, err := h.owners.AuthorizeOwner(ctx, id, ps.ByName("id"))
	cancel()
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	h.hub.Serve(w, r, LiveKey(place.ID.Hex()))
}
