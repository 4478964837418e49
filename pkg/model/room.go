package model

type Room struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Location   string `json:"location" bson:"location" validate:"required,min=2,max=100"`
	Capacity   int    `json:"capacity" bson:"capacity" validate:"required,min=1,max=1000"`
	PriceCents int    `json:"price_cents" bson:"price_cents" validate:"required,min=0"`
}

// RoomAvailability is the search projection: a room joined with the minimum
// remaining units across the requested date range.
type RoomAvailability struct {
	ID             string `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	Location       string `json:"location" bson:"location"`
	Capacity       int    `json:"capacity" bson:"capacity"`
	PriceCents     int    `json:"price_cents" bson:"price_cents"`
	AvailableUnits int    `json:"available_units" bson:"available_units"`
}
