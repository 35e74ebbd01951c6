package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Place struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner"`
	Title       string             `json:"title" bson:"title"`
	Address     string             `json:"address" bson:"address"`
	Photos      []string           `json:"photos" bson:"photos"`
	Description string             `json:"description" bson:"description"`
	Perks       []string           `json:"perks" bson:"perks"`
	ExtraInfo   string             `json:"extraInfo" bson:"extraInfo"`
	CheckIn     int                `json:"checkIn" bson:"checkIn"`
	CheckOut    int                `json:"checkOut" bson:"checkOut"`
	MaxGuests   int                `json:"maxGuests" bson:"maxGuests"`
	Price       float64            `json:"price" bson:"price"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PlaceInput is the client payload for creating or replacing a listing.
// ID is only read on update; there is deliberately no owner field.
type PlaceInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	AddedPhotos []string `json:"addedPhotos"`
	Description string   `json:"description"`
	Perks       []string `json:"perks"`
	ExtraInfo   string   `json:"extraInfo"`
	CheckIn     Num      `json:"checkIn"`
	CheckOut    Num      `json:"checkOut"`
	MaxGuests   Num      `json:"maxGuests"`
	Price       Num      `json:"price"`
}
