package models

import "time"

// User covers registered renters, sellers, field workers and synthesized
// walk-in guests. Guests are keyed by phone and reused across bookings.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsGuest      bool      `json:"is_guest"`
	ZoneID       int64     `json:"zone_id,omitempty"`
	ZoneCode     string    `json:"zone_code,omitempty"`
	ZoneName     string    `json:"zone_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
