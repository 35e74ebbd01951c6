package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/models"
)

// Credentials registers and authenticates users. Each hash carries its own
// bcrypt salt.
type Credentials struct {
	users     UserStore
	cost      int
	dummyHash []byte
}

func NewCredentials(users UserStore, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against for unknown emails so both failure paths cost a bcrypt run
	dummy, _ := bcrypt.GenerateFromPassword([]byte("roomradar-dummy-password"), cost)
	return &Credentials{users: users, cost: cost, dummyHash: dummy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *Credentials) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "" || email == "" || rawPassword == "":
		return nil, apperr.New(apperr.ValidationFailure, "Missing required fields")
	case !strings.Contains(email, "@"):
		return nil, apperr.New(apperr.ValidationFailure, "Invalid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), c.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.New(apperr.ValidationFailure, "Password is too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	}
	if err := c.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate reports InvalidCredentials for both unknown emails and wrong passwords.
func (c *Credentials) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	invalid := apperr.New(apperr.InvalidCredentials, "Invalid email or password")

	user, err := c.users.FindByEmail(ctx, normalizeEmail(email))
	if apperr.Is(err, apperr.NotFound) {
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(rawPassword))
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (c *Credentials) Profile(ctx context.Context, userID string) (models.Profile, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Profile{}, apperr.New(apperr.NotFound, "User not found")
	}
	user, err := c.users.FindByID(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}
