package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"campus-scheduler/internal/model"
)

// draft carries a request through the validation pipeline. Raw fields are
// filled by the caller; the parsed ones by the steps.
type draft struct {
	actor Actor
	kind  model.Kind // empty for availability slots

	professorID  string
	studentID    string
	participants []string
	rawDate      string
	rawStart     string
	rawEnd       string
	day          string

	date       string
	start, end model.Clock
}

// step returns nil or a *Rejection.
type step func(ctx context.Context, d *draft) error

func (s *Service) run(ctx context.Context, d *draft, steps ...step) error {
	for _, st := range steps {
		if err := st(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// bookingSteps is the single pipeline shared by both booking flows.
func (s *Service) bookingSteps() []step {
	return []step{
		s.requireFields,
		s.notInPast,
		s.timeOrdered,
		s.resolveParties,
		s.authorize,
		s.withinAvailability,
		s.noOverlap,
	}
}

func (s *Service) requireFields(_ context.Context, d *draft) error {
	var missing []string
	switch d.kind {
	case model.KindProfessorStudent:
		if d.studentID == "" {
			missing = append(missing, "studentId")
		}
		if d.professorID == "" {
			missing = append(missing, "professorId")
		}
	case model.KindWardenWarden:
		if len(d.participants) == 0 {
			missing = append(missing, "participants")
		}
	default:
		if d.professorID == "" {
			missing = append(missing, "professorId")
		}
	}
	if d.rawStart == "" {
		missing = append(missing, "startTime")
	}
	if d.rawEnd == "" {
		missing = append(missing, "endTime")
	}
	if d.rawDate == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		rej := reject(MissingFields, "missing required fields")
		rej.Fields = missing
		return rej
	}

	var bad []string
	var err error
	if d.start, err = model.ParseClock(d.rawStart); err != nil {
		bad = append(bad, "startTime")
	}
	if d.end, err = model.ParseEndClock(d.rawEnd); err != nil {
		bad = append(bad, "endTime")
	}
	if d.date, err = model.ParseDate(d.rawDate); err != nil {
		bad = append(bad, "date")
	}
	if len(bad) > 0 {
		rej := reject(InvalidFormat, "times look like 10:00 AM or 14:30, dates like 2025-12-20")
		rej.Fields = bad
		return rej
	}
	if d.day == "" {
		d.day = model.Weekday(d.date)
	}
	return nil
}

func (s *Service) notInPast(_ context.Context, d *draft) error {
	if d.date < model.Today(s.now(), s.loc) {
		return reject(PastDate, "cannot book in the past")
	}
	return nil
}

func (s *Service) timeOrdered(_ context.Context, d *draft) error {
	if d.start >= d.end {
		return reject(InvalidTimeOrder, "start time must be before end time")
	}
	return nil
}

func (s *Service) resolveParties(ctx context.Context, d *draft) error {
	if d.kind == model.KindWardenWarden {
		return s.resolveWardens(ctx, d)
	}
	if err := s.expectRole(ctx, d.studentID, model.RoleStudent, PartyStudent); err != nil {
		return err
	}
	if err := s.expectRole(ctx, d.professorID, model.RoleProfessor, PartyProfessor); err != nil {
		return err
	}
	d.participants = []string{d.professorID, d.studentID}
	return nil
}

// expectRole is findUserByRoleAndId: absent and wrong-role look the same.
func (s *Service) expectRole(ctx context.Context, id string, role model.Role, party string) error {
	u, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) || (err == nil && u.Role != role) {
		rej := reject(ParticipantNotFound, party+" not found")
		rej.Party = party
		return rej
	}
	if err != nil {
		return infra("find "+party, err)
	}
	return nil
}

func (s *Service) resolveWardens(ctx context.Context, d *draft) error {
	seen := make(map[string]bool, len(d.participants))
	for _, id := range d.participants {
		if id == "" || seen[id] {
			return reject(InvalidParticipants, "participants must include exactly two wardens")
		}
		seen[id] = true
	}
	if len(d.participants) != 2 {
		return reject(InvalidParticipants, "participants must include exactly two wardens")
	}
	for _, id := range d.participants {
		u, err := s.store.FindUserByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			rej := reject(ParticipantNotFound, fmt.Sprintf("participant %s not found", id))
			rej.Party = PartyParticipant
			return rej
		}
		if err != nil {
			return infra("find participant", err)
		}
		if u.Role != model.RoleWarden {
			return reject(InvalidParticipants, "participants must include exactly two wardens")
		}
	}
	return nil
}

func (s *Service) authorize(_ context.Context, d *draft) error {
	switch d.kind {
	case model.KindWardenWarden:
		if d.actor.Role != model.RoleWarden {
			return reject(Forbidden, "only wardens can book warden appointments")
		}
		if !slices.Contains(d.participants, d.actor.ID) {
			return reject(Forbidden, "the initiator must be one of the participants")
		}
	default:
		switch d.actor.Role {
		case model.RoleStudent:
			if d.actor.ID != d.studentID {
				return reject(Forbidden, "students can only book for themselves")
			}
		case model.RoleProfessor:
			if d.actor.ID != d.professorID {
				return reject(Forbidden, "professors can only book their own time")
			}
		default:
			return reject(Forbidden, "access denied, insufficient role")
		}
	}
	return nil
}

func (s *Service) withinAvailability(ctx context.Context, d *draft) error {
	if !s.requireAvailability || d.kind != model.KindProfessorStudent {
		return nil
	}
	slots, err := s.store.ListSlots(ctx, d.professorID)
	if err != nil {
		return infra("list slots", err)
	}
	for _, sl := range slots {
		if sl.Date == d.date && sl.Contains(d.start, d.end) {
			return nil
		}
	}
	return reject(OutsideAvailability, "the professor has not published this time")
}

func (s *Service) noOverlap(ctx context.Context, d *draft) error {
	hits, err := s.store.FindOverlapping(ctx, d.participants, d.date, d.start, d.end)
	if err != nil {
		return infra("find overlapping", err)
	}
	if len(hits) > 0 {
		return overlapRejection()
	}
	return nil
}

func overlapRejection() *Rejection {
	return reject(SlotOverlap, "this time slot overlaps with an existing appointment")
}
