package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why an operation was refused.
type Reason string

const (
	MissingFields         Reason = "MissingFields"
	InvalidFormat         Reason = "InvalidFormat"
	PastDate              Reason = "PastDate"
	InvalidTimeOrder      Reason = "InvalidTimeOrder"
	ParticipantNotFound   Reason = "ParticipantNotFound"
	Forbidden             Reason = "Forbidden"
	InvalidParticipants   Reason = "InvalidParticipants"
	OutsideAvailability   Reason = "OutsideAvailability"
	DuplicateSlot         Reason = "DuplicateSlot"
	SlotOverlap           Reason = "SlotOverlap"
	NotFound              Reason = "NotFound"
	InvalidTransition     Reason = "InvalidTransition"
	InfrastructureFailure Reason = "InfrastructureFailure"
)

// Parties named by ParticipantNotFound.
const (
	PartyStudent     = "student"
	PartyProfessor   = "professor"
	PartyParticipant = "participant"
)

// Rejection is the error every Service operation returns. Business rejections
// carry enough detail for the caller to fix the request; only
// InfrastructureFailure wraps an underlying error.
type Rejection struct {
	Reason  Reason
	Message string
	Fields  []string
	Party   string
	Err     error
}

func (r *Rejection) Error() string {
	var b strings.Builder
	b.WriteString(string(r.Reason))
	if r.Message != "" {
		b.WriteString(": ")
		b.WriteString(r.Message)
	}
	if len(r.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(r.Fields, ", "))
	}
	if r.Err != nil {
		b.WriteString(": ")
		b.WriteString(r.Err.Error())
	}
	return b.String()
}

func (r *Rejection) Unwrap() error { return r.Err }

// Retryable reports whether the caller may try the same request again.
func (r *Rejection) Retryable() bool { return r.Reason == InfrastructureFailure }

// ReasonOf returns the reason carried by err, or "" when err is not a
// rejection.
func ReasonOf(err error) Reason {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

func reject(reason Reason, msg string) *Rejection {
	return &Rejection{Reason: reason, Message: msg}
}

func infra(op string, err error) *Rejection {
	return &Rejection{
		Reason:  InfrastructureFailure,
		Message: "store unavailable",
		Err:     fmt.Errorf("%s: %w", op, err),
	}
}
