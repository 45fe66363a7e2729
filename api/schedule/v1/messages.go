package schedulev1

import "google.golang.org/protobuf/types/known/timestamppb"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse answers Register, Login and Refresh.
type AuthResponse struct {
	UserId       string                 `json:"user_id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	Token        string                 `json:"token"`
	ExpiresAt    *timestamppb.Timestamp `json:"expires_at,omitempty"`
	RefreshToken string                 `json:"refresh_token"`
}

type AvailabilitySlot struct {
	Id          string                 `json:"id"`
	ProfessorId string                 `json:"professor_id"`
	Date        string                 `json:"date"`
	StartTime   string                 `json:"start_time"`
	EndTime     string                 `json:"end_time"`
	Day         string                 `json:"day"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type AddAvailabilityRequest struct {
	ProfessorId string `json:"professor_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Day         string `json:"day"`
}

type AddAvailabilityResponse struct {
	Slot *AvailabilitySlot `json:"slot"`
}

type GetAvailabilityRequest struct {
	ProfessorId string `json:"professor_id"`
}

type GetAvailabilityResponse struct {
	Slots []*AvailabilitySlot `json:"slots"`
}

type Appointment struct {
	Id           string                 `json:"id"`
	Kind         string                 `json:"kind"`
	ProfessorId  string                 `json:"professor_id,omitempty"`
	StudentId    string                 `json:"student_id,omitempty"`
	Participants []string               `json:"participants"`
	InitiatorId  string                 `json:"initiator_id"`
	Date         string                 `json:"date"`
	StartTime    string                 `json:"start_time"`
	EndTime      string                 `json:"end_time"`
	Day          string                 `json:"day"`
	Status       string                 `json:"status"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt    *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type BookAppointmentRequest struct {
	StudentId   string `json:"student_id"`
	ProfessorId string `json:"professor_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Day         string `json:"day"`
}

type BookWardenAppointmentRequest struct {
	Participants []string `json:"participants"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Day          string   `json:"day"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type CancelAppointmentRequest struct {
	Id string `json:"id"`
}

type GetAppointmentRequest struct {
	Id string `json:"id"`
}

type ListAppointmentsRequest struct {
	// Status filters by booked, canceled or completed; empty lists all.
	Status string `json:"status"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}
