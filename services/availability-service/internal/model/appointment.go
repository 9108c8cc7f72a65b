package model

import "time"

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Appointment struct {
	ID            string
	BusinessID    string
	ServiceID     string
	StaffID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	CancelledAt   *time.Time
	CancelReason  string
	CreatedAt     time.Time
}

// Blocks reports whether the appointment occupies staff time.
// Cancelled appointments never block a slot.
func (a Appointment) Blocks() bool {
	return a.Status != StatusCancelled
}
