// Package model holds the persisted entities of the shop.
package model

import (
	"strings"
	"time"
)

// Booking statuses. A booking occupies its slot only while pending or
// confirmed; cancelled and no-show bookings free it immediately.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Barber is a bookable staff member.
type Barber struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Specialties string    `json:"specialties,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is an offering with a fixed length and price.
type Service struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Minutes    int       `json:"minutes"`
	PriceCents int64     `json:"price_cents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking is an appointment for one barber on one day. Date is "YYYY-MM-DD",
// times are "HH:MM".
type Booking struct {
	ID            string    `json:"id"`
	BarberID      string    `json:"barber_id"`
	ServiceID     string    `json:"service_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	PriceCents    int64     `json:"price_cents"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Occupies reports whether the booking still holds its time range.
func (b *Booking) Occupies() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Terminal reports whether the booking can no longer change status.
func (b *Booking) Terminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// BlockedRange is an administratively blocked window in a barber's day.
type BlockedRange struct {
	ID        string    `json:"id"`
	BarberID  string    `json:"barber_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ShopSettings is the single operating-hours configuration row. Time fields
// are raw strings; normalization happens in the schedule package.
type ShopSettings struct {
	ID             string `json:"id"`
	Open           bool   `json:"open"`
	ClosedMessage  string `json:"closed_message,omitempty"`
	OpensAt        string `json:"opens_at"`
	ClosesAt       string `json:"closes_at"`
	LunchStart     string `json:"lunch_start,omitempty"`
	LunchEnd       string `json:"lunch_end,omitempty"`
	SlotMinutes    int    `json:"slot_minutes"`
	WorkingDays    string `json:"working_days"` // comma-separated Mon..Sun abbreviations
	MaxAdvanceDays int    `json:"max_advance_days"`
}

// WorksOn reports whether the shop opens on the given weekday. An empty list
// means every day.
func (s *ShopSettings) WorksOn(day time.Weekday) bool {
	if s.WorkingDays == "" {
		return true
	}
	abbrs := [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	want := abbrs[int(day)]
	for _, cur := range strings.Split(s.WorkingDays, ",") {
		if strings.TrimSpace(cur) == want {
			return true
		}
	}
	return false
}
