package places

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/models"
	"github.com/sayanchanda7290/roomradar/session"
	"github.com/sayanchanda7290/roomradar/utils"
)

const (
	cacheKeyAll    = "places"
	cachePrefixOne = "place:"
	cacheTTL       = 5 * time.Minute
)

// Cache is the subset of the redis client the listing cache needs.
type Cache interface {
	RdxGet(ctx context.Context, key string) (string, error)
	RdxSet(ctx context.Context, key, value string, ttl time.Duration) error
	RdxDel(ctx context.Context, keys ...string) (int64, error)
}

type Events interface {
	Emit(ctx context.Context, eventName string, content models.Index)
}

type Service struct {
	store  Store
	cache  Cache
	events Events
	now    func() time.Time
}

// NewService builds the listing service. cache and events may be nil.
func NewService(store Store, cache Cache, events Events) *Service {
	return &Service{store: store, cache: cache, events: events, now: time.Now}
}

// CallerID converts a verified identity into the owner id stored on places.
func CallerID(id session.Identity) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Unauthenticated, "Invalid session identity")
	}
	return oid, nil
}

func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.NotFound, "Place not found")
	}
	return oid, nil
}

func (s *Service) Create(ctx context.Context, caller session.Identity, in models.PlaceInput) (*models.Place, error) {
	owner, err := CallerID(caller)
	if err != nil {
		return nil, err
	}

	place := &models.Place{ID: primitive.NewObjectID(), Owner: owner}
	if err := applyInput(place, in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	place.CreatedAt = now
	place.UpdatedAt = now

	if err := s.store.Insert(ctx, place); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cacheKeyAll)
	s.emit(ctx, "place-created", place.ID, "POST")
	return place, nil
}

// Update replaces every field except id and owner. Only the owner may update.
func (s *Service) Update(ctx context.Context, caller session.Identity, id string, in models.PlaceInput) (*models.Place, error) {
	place, err := s.AuthorizeOwner(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := applyInput(place, in); err != nil {
		return nil, err
	}
	place.UpdatedAt = s.now().UTC()

	if err := s.store.ReplaceOwned(ctx, place); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cacheKeyAll, cachePrefixOne+place.ID.Hex())
	s.emit(ctx, "place-updated", place.ID, "PUT")
	return place, nil
}

// AuthorizeOwner loads the place and checks the caller owns it.
func (s *Service) AuthorizeOwner(ctx context.Context, caller session.Identity, id string) (*models.Place, error) {
	owner, err := CallerID(caller)
	if err != nil {
		return nil, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	place, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if place.Owner != owner {
		return nil, apperr.New(apperr.Forbidden, "You are not the owner of this place")
	}
	return place, nil
}

func (s *Service) ListByOwner(ctx context.Context, caller session.Identity) ([]models.Place, error) {
	owner, err := CallerID(caller)
	if err != nil {
		return nil, err
	}
	return s.store.FindByOwner(ctx, owner)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Place, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	key := cachePrefixOne + oid.Hex()
	var cached models.Place
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	place, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, place)
	return place, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Place, error) {
	var cached []models.Place
	if s.fromCache(ctx, cacheKeyAll, &cached) {
		return cached, nil
	}

	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKeyAll, all)
	return all, nil
}

func applyInput(p *models.Place, in models.PlaceInput) error {
	title := strings.TrimSpace(in.Title)
	address := strings.TrimSpace(in.Address)
	if title == "" || address == "" {
		return apperr.New(apperr.ValidationFailure, "Title and address are required")
	}

	checkIn, ok := in.CheckIn.Int()
	if !ok || checkIn < 0 {
		return apperr.New(apperr.ValidationFailure, "checkIn must be a non-negative whole number")
	}
	checkOut, ok := in.CheckOut.Int()
	if !ok || checkOut < 0 {
		return apperr.New(apperr.ValidationFailure, "checkOut must be a non-negative whole number")
	}
	maxGuests, ok := in.MaxGuests.Int()
	if !ok || maxGuests < 0 {
		return apperr.New(apperr.ValidationFailure, "maxGuests must be a non-negative whole number")
	}
	if in.Price < 0 {
		return apperr.New(apperr.ValidationFailure, "price must not be negative")
	}

	p.Title = title
	p.Address = address
	p.Photos = utils.TrimList(in.AddedPhotos)
	p.Description = in.Description
	p.Perks = utils.CleanTags(in.Perks)
	p.ExtraInfo = in.ExtraInfo
	p.CheckIn = checkIn
	p.CheckOut = checkOut
	p.MaxGuests = maxGuests
	p.Price = float64(in.Price)
	return nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.RdxGet(ctx, key)
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return false
	}
	if cached == "" {
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		log.Printf("cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.RdxSet(ctx, key, string(data), cacheTTL); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.RdxDel(ctx, keys...); err != nil {
		log.Printf("Cache deletion failed for %v: %v", keys, err)
	}
}

func (s *Service) emit(ctx context.Context, event string, id primitive.ObjectID, method string) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, models.Index{EntityType: "place", EntityId: id.Hex(), Method: method})
}
