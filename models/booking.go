package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Place          primitive.ObjectID `json:"place" bson:"place"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	CheckIn        time.Time          `json:"checkIn" bson:"checkIn"`
	CheckOut       time.Time          `json:"checkOut" bson:"checkOut"`
	NumberOfGuests int                `json:"numberOfGuests" bson:"numberOfGuests"`
	Name           string             `json:"name" bson:"name"`
	Phone          string             `json:"phone" bson:"phone"`
	Price          float64            `json:"price" bson:"price"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// BookingWithPlace is a Booking read back with its place reference expanded.
// Place is nil when the referenced listing does not exist.
type BookingWithPlace struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	Place          *Place             `json:"place" bson:"place,omitempty"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	CheckIn        time.Time          `json:"checkIn" bson:"checkIn"`
	CheckOut       time.Time          `json:"checkOut" bson:"checkOut"`
	NumberOfGuests int                `json:"numberOfGuests" bson:"numberOfGuests"`
	Name           string             `json:"name" bson:"name"`
	Phone          string             `json:"phone" bson:"phone"`
	Price          float64            `json:"price" bson:"price"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// BookingInput is the client payload for a new booking. Any user id the
// client sends is not part of this type and is dropped during decoding.
type BookingInput struct {
	Place          string `json:"place"`
	CheckIn        string `json:"checkIn"`
	CheckOut       string `json:"checkOut"`
	NumberOfGuests Num    `json:"numberOfGuests"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Price          Num    `json:"price"`
}
