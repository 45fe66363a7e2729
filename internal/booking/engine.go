package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"campus-scheduler/internal/model"
)

// Directory resolves identities.
type Directory interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

// Availability persists professor-published slots.
type Availability interface {
	CreateSlot(ctx context.Context, slot *model.AvailabilitySlot) error
	FindSlot(ctx context.Context, professorID, date string, start, end model.Clock) (*model.AvailabilitySlot, error)
	ListSlots(ctx context.Context, professorID string) ([]model.AvailabilitySlot, error)
}

// Ledger persists appointments. Commit must re-run the overlap check and the
// insert atomically and report a collision as model.ErrConflict. UpdateStatus
// returns model.ErrConflict when the row is no longer in status from.
type Ledger interface {
	FindOverlapping(ctx context.Context, participants []string, date string, start, end model.Clock) ([]model.Appointment, error)
	Commit(ctx context.Context, a *model.Appointment) error
	FindAppointment(ctx context.Context, id string) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error
	ListAppointments(ctx context.Context, participant string, status model.Status) ([]model.Appointment, error)
	CompleteEnded(ctx context.Context, date string, minute model.Clock, at time.Time) (int64, error)
}

type Store interface {
	Directory
	Availability
	Ledger
}

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role model.Role
}

type Options struct {
	// RequireAvailability refuses professor-student bookings that do not fall
	// inside a published slot.
	RequireAvailability bool
	// Location decides what "today" is. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
	// SlotCacheTTL keeps each professor's slot list in memory. Zero disables
	// the cache. AddAvailability evicts the professor's entry.
	SlotCacheTTL time.Duration
}

// Service is the booking engine. It holds no locks; concurrent bookings are
// serialized by Ledger.Commit.
type Service struct {
	store               Store
	requireAvailability bool
	loc                 *time.Location
	now                 func() time.Time
	slots               *cache.Cache
}

func New(st Store, opts Options) *Service {
	s := &Service{
		store:               st,
		requireAvailability: opts.RequireAvailability,
		loc:                 opts.Location,
		now:                 opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.SlotCacheTTL > 0 {
		s.slots = cache.New(opts.SlotCacheTTL, 2*opts.SlotCacheTTL)
	}
	return s
}

// Request is a professor-student booking. Times and date are raw user input.
type Request struct {
	StudentID   string
	ProfessorID string
	Date        string
	StartTime   string
	EndTime     string
	Day         string
}

type WardenRequest struct {
	Participants []string
	Date         string
	StartTime    string
	EndTime      string
	Day          string
}

func (s *Service) Book(ctx context.Context, actor Actor, req Request) (*model.Appointment, error) {
	d := &draft{
		actor:       actor,
		kind:        model.KindProfessorStudent,
		studentID:   req.StudentID,
		professorID: req.ProfessorID,
		rawDate:     req.Date,
		rawStart:    req.StartTime,
		rawEnd:      req.EndTime,
		day:         req.Day,
	}
	if err := s.run(ctx, d, s.bookingSteps()...); err != nil {
		return nil, err
	}
	return s.commit(ctx, d)
}

func (s *Service) BookWarden(ctx context.Context, actor Actor, req WardenRequest) (*model.Appointment, error) {
	d := &draft{
		actor:        actor,
		kind:         model.KindWardenWarden,
		participants: req.Participants,
		rawDate:      req.Date,
		rawStart:     req.StartTime,
		rawEnd:       req.EndTime,
		day:          req.Day,
	}
	if err := s.run(ctx, d, s.bookingSteps()...); err != nil {
		return nil, err
	}
	return s.commit(ctx, d)
}

func (s *Service) commit(ctx context.Context, d *draft) (*model.Appointment, error) {
	now := s.now().UTC()
	a := &model.Appointment{
		ID:           uuid.New().String(),
		Kind:         d.kind,
		ProfessorID:  d.professorID,
		StudentID:    d.studentID,
		Participants: append([]string(nil), d.participants...),
		InitiatorID:  d.actor.ID,
		Date:         d.date,
		Start:        d.start,
		End:          d.end,
		Day:          d.day,
		Status:       model.StatusBooked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Commit(ctx, a); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, overlapRejection()
		}
		return nil, infra("commit appointment", err)
	}
	return a, nil
}

// Cancel moves a booked appointment to canceled. Canceling an appointment
// that is already canceled returns it unchanged.
func (s *Service) Cancel(ctx context.Context, actor Actor, id string) (*model.Appointment, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.HasParticipant(actor.ID) {
		return nil, reject(Forbidden, "not authorized to cancel this appointment")
	}
	return s.transition(ctx, a, model.StatusCanceled)
}

// Complete moves a booked appointment to completed. It is driven by the
// completion job, not by a user.
func (s *Service) Complete(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, a, model.StatusCompleted)
}

// CompleteEnded completes every booked appointment that ended before now.
func (s *Service) CompleteEnded(ctx context.Context) (int64, error) {
	now := s.now().In(s.loc)
	minute := model.Clock(now.Hour()*60 + now.Minute())
	n, err := s.store.CompleteEnded(ctx, model.Today(now, s.loc), minute, now.UTC())
	if err != nil {
		return 0, infra("complete ended", err)
	}
	return n, nil
}

func (s *Service) transition(ctx context.Context, a *model.Appointment, to model.Status) (*model.Appointment, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if a.Status == to {
			return a, nil
		}
		if a.Status.Terminal() {
			return nil, reject(InvalidTransition, "appointment is already "+string(a.Status))
		}

		at := s.now().UTC()
		err := s.store.UpdateStatus(ctx, a.ID, model.StatusBooked, to, at)
		if err == nil {
			a.Status = to
			a.UpdatedAt = at
			return a, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, infra("update status", err)
		}
		// someone else moved it first; judge against the stored state
		if a, err = s.find(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return nil, reject(InvalidTransition, "appointment is already "+string(a.Status))
}

func (s *Service) find(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		rej := reject(MissingFields, "appointment id required")
		rej.Fields = []string{"appointmentId"}
		return nil, rej
	}
	a, err := s.store.FindAppointment(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, reject(NotFound, "appointment not found")
	}
	if err != nil {
		return nil, infra("find appointment", err)
	}
	return a, nil
}

// GetAppointment hides appointments the actor does not take part in.
func (s *Service) GetAppointment(ctx context.Context, actor Actor, id string) (*model.Appointment, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.HasParticipant(actor.ID) {
		return nil, reject(NotFound, "appointment not found")
	}
	return a, nil
}

// ListAppointments returns the actor's appointments, all statuses when
// status is empty.
func (s *Service) ListAppointments(ctx context.Context, actor Actor, status model.Status) ([]model.Appointment, error) {
	if status != "" && !status.Valid() {
		rej := reject(InvalidFormat, "unknown status "+string(status))
		rej.Fields = []string{"status"}
		return nil, rej
	}
	out, err := s.store.ListAppointments(ctx, actor.ID, status)
	if err != nil {
		return nil, infra("list appointments", err)
	}
	if out == nil {
		out = []model.Appointment{}
	}
	return out, nil
}
