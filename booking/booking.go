package booking

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/models"
	"github.com/sayanchanda7290/roomradar/session"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type Events interface {
	Emit(ctx context.Context, eventName string, content models.Index)
}

// Notifier pushes a value to everyone watching key.
type Notifier interface {
	Broadcast(key string, v any)
}

type Service struct {
	store    Store
	events   Events
	notifier Notifier
	now      func() time.Time
}

// NewService builds the booking service. events and notifier may be nil.
func NewService(store Store, events Events, notifier Notifier) *Service {
	return &Service{store: store, events: events, notifier: notifier, now: time.Now}
}

// LiveKey names the feed that receives bookings for a place.
func LiveKey(placeID string) string {
	return "place_" + placeID
}

// Create records a booking for the caller. The place is not checked for
// existence and stays are not checked for overlap.
func (s *Service) Create(ctx context.Context, caller session.Identity, in models.BookingInput) (*models.Booking, error) {
	user, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid session identity")
	}

	b, err := buildBooking(in)
	if err != nil {
		return nil, err
	}
	b.ID = primitive.NewObjectID()
	b.User = user
	b.CreatedAt = s.now().UTC()

	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Emit(ctx, "booking-created", models.Index{
			EntityType: "booking",
			EntityId:   b.ID.Hex(),
			Method:     "POST",
			ItemType:   "place",
			ItemId:     b.Place.Hex(),
		})
	}
	if s.notifier != nil {
		s.notifier.Broadcast(LiveKey(b.Place.Hex()), b)
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, caller session.Identity) ([]models.BookingWithPlace, error) {
	user, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid session identity")
	}
	return s.store.FindByUser(ctx, user)
}

// Get returns one booking with its place. Only the booker may read it.
func (s *Service) Get(ctx context.Context, caller session.Identity, id string) (*models.BookingWithPlace, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "Booking not found")
	}
	b, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if b.User.Hex() != caller.UserID {
		return nil, apperr.New(apperr.Forbidden, "This booking belongs to another user")
	}
	return b, nil
}

// CheckReceipt resolves the booking a verified receipt was issued for. The
// booker and the owner of the booked place may check it.
func (s *Service) CheckReceipt(ctx context.Context, caller session.Identity, bookingID, userID string) (*models.BookingWithPlace, error) {
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, apperr.New(apperr.ValidationFailure, "Invalid receipt")
	}
	b, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if b.User.Hex() != userID {
		return nil, apperr.New(apperr.ValidationFailure, "Receipt does not match the booking")
	}
	if b.User.Hex() != caller.UserID && (b.Place == nil || b.Place.Owner.Hex() != caller.UserID) {
		return nil, apperr.New(apperr.Forbidden, "Only the guest or the host can check this receipt")
	}
	return b, nil
}

func buildBooking(in models.BookingInput) (*models.Booking, error) {
	place, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.Place))
	if err != nil {
		return nil, apperr.New(apperr.ValidationFailure, "place must be a valid id")
	}
	checkIn, err := parseDate(in.CheckIn)
	if err != nil {
		return nil, apperr.Wrap(apperr.ValidationFailure, "checkIn must be a date", err)
	}
	checkOut, err := parseDate(in.CheckOut)
	if err != nil {
		return nil, apperr.Wrap(apperr.ValidationFailure, "checkOut must be a date", err)
	}
	guests, ok := in.NumberOfGuests.Int()
	if !ok || guests < 0 {
		return nil, apperr.New(apperr.ValidationFailure, "numberOfGuests must be a non-negative whole number")
	}
	if in.Price < 0 {
		return nil, apperr.New(apperr.ValidationFailure, "price must not be negative")
	}
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, apperr.New(apperr.ValidationFailure, "Name and phone are required")
	}

	return &models.Booking{
		Place:          place,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: guests,
		Name:           name,
		Phone:          phone,
		Price:          float64(in.Price),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
