package model

import (
	"fmt"
	"slices"
	"time"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleWarden    Role = "warden"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleWarden:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Status is the appointment lifecycle state. Booked is the only state with
// outgoing transitions.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

type Kind string

const (
	KindProfessorStudent Kind = "professor-student"
	KindWardenWarden     Kind = "warden-warden"
)

// AvailabilitySlot is a window [Start, End) on Date in which a professor
// accepts bookings.
type AvailabilitySlot struct {
	ID          string
	ProfessorID string
	Date        string
	Start       Clock
	End         Clock
	Day         string
	CreatedAt   time.Time
}

// Contains reports whether [start, end) lies entirely inside the slot.
func (s AvailabilitySlot) Contains(start, end Clock) bool {
	return s.Start <= start && end <= s.End
}

type Appointment struct {
	ID           string
	Kind         Kind
	ProfessorID  string
	StudentID    string
	Participants []string
	InitiatorID  string
	Date         string
	Start        Clock
	End          Clock
	Day          string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Appointment) HasParticipant(userID string) bool {
	return slices.Contains(a.Participants, userID)
}

// Overlaps reports whether a and the interval [start, end) on date intersect.
func (a *Appointment) Overlaps(date string, start, end Clock) bool {
	return a.Date == date && Overlaps(a.Start, a.End, start, end)
}

// RefreshToken is an opaque rotating credential; only its hash is stored.
type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}
