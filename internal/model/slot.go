package model

import (
	"encoding/json"
	"fmt"
)

// Slot is an open reservation hour offered to visitors. It is transient and
// derived from the opening hours and the bookings already taken.
type Slot struct {
	Hour  int
	Label string
}

// NewSlot builds the slot for hour with its display label, e.g. "18:00 Hours".
func NewSlot(hour int) Slot {
	return Slot{Hour: hour, Label: fmt.Sprintf("%d:00 Hours", hour)}
}

// MarshalJSON encodes the slot as a two element array [hour, label], which is
// what the booking page script iterates over.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Hour, s.Label})
}
