package gormstore

import (
	"time"

	"campus-scheduler/internal/model"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type refreshTokenRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"index;not null"`
	TokenHash  string    `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	Revoked    bool      `gorm:"not null;default:false"`
	ReplacedBy *string
	CreatedAt  time.Time
}

func (refreshTokenRow) TableName() string { return "refresh_tokens" }

type slotRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	ProfessorID string `gorm:"uniqueIndex:idx_slot_identity;not null"`
	SlotDate    string `gorm:"uniqueIndex:idx_slot_identity;size:10;not null"`
	StartMinute int    `gorm:"uniqueIndex:idx_slot_identity;not null"`
	EndMinute   int    `gorm:"uniqueIndex:idx_slot_identity;not null"`
	Day         string
	CreatedAt   time.Time
}

func (slotRow) TableName() string { return "availability_slots" }

func (r slotRow) toModel() model.AvailabilitySlot {
	return model.AvailabilitySlot{
		ID:          r.ID,
		ProfessorID: r.ProfessorID,
		Date:        r.SlotDate,
		Start:       model.Clock(r.StartMinute),
		End:         model.Clock(r.EndMinute),
		Day:         r.Day,
		CreatedAt:   r.CreatedAt,
	}
}

type appointmentRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Kind         string `gorm:"size:32;not null"`
	ProfessorID  string
	StudentID    string
	InitiatorID  string `gorm:"not null"`
	ApptDate     string `gorm:"index;size:10;not null"`
	StartMinute  int    `gorm:"not null"`
	EndMinute    int    `gorm:"not null"`
	Day          string
	Status       string `gorm:"index;size:16;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Participants []participantRow `gorm:"foreignKey:AppointmentID"`
}

func (appointmentRow) TableName() string { return "appointments" }

// participantRow is one ledger entry per participant. The partial unique
// index keeps two active appointments of one participant from starting at the
// same minute; Active goes false on cancel.
type participantRow struct {
	AppointmentID string `gorm:"primaryKey;size:36"`
	UserID        string `gorm:"primaryKey;size:36;uniqueIndex:idx_participant_start,where:active"`
	ApptDate      string `gorm:"size:10;not null;uniqueIndex:idx_participant_start,where:active"`
	StartMinute   int    `gorm:"not null;uniqueIndex:idx_participant_start,where:active"`
	EndMinute     int    `gorm:"not null"`
	Position      int    `gorm:"not null"`
	Active        bool   `gorm:"not null"`
}

func (participantRow) TableName() string { return "appointment_participants" }

func toAppointmentRow(a *model.Appointment) appointmentRow {
	row := appointmentRow{
		ID:          a.ID,
		Kind:        string(a.Kind),
		ProfessorID: a.ProfessorID,
		StudentID:   a.StudentID,
		InitiatorID: a.InitiatorID,
		ApptDate:    a.Date,
		StartMinute: int(a.Start),
		EndMinute:   int(a.End),
		Day:         a.Day,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	active := a.Status != model.StatusCanceled
	for i, uid := range a.Participants {
		row.Participants = append(row.Participants, participantRow{
			AppointmentID: a.ID,
			UserID:        uid,
			ApptDate:      a.Date,
			StartMinute:   int(a.Start),
			EndMinute:     int(a.End),
			Position:      i,
			Active:        active,
		})
	}
	return row
}

func (r appointmentRow) toModel() model.Appointment {
	a := model.Appointment{
		ID:          r.ID,
		Kind:        model.Kind(r.Kind),
		ProfessorID: r.ProfessorID,
		StudentID:   r.StudentID,
		InitiatorID: r.InitiatorID,
		Date:        r.ApptDate,
		Start:       model.Clock(r.StartMinute),
		End:         model.Clock(r.EndMinute),
		Day:         r.Day,
		Status:      model.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, p := range r.Participants {
		a.Participants = append(a.Participants, p.UserID)
	}
	return a
}
