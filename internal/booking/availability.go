package booking

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/google/uuid"

	"campus-scheduler/internal/model"
)

type SlotRequest struct {
	// ProfessorID defaults to the actor.
	ProfessorID string
	Date        string
	StartTime   string
	EndTime     string
	Day         string
}

// AddAvailability publishes a slot for the calling professor. Only exact
// duplicates are refused; overlapping slots are accepted.
func (s *Service) AddAvailability(ctx context.Context, actor Actor, req SlotRequest) (*model.AvailabilitySlot, error) {
	if actor.Role != model.RoleProfessor {
		return nil, reject(Forbidden, "access denied, insufficient role")
	}
	if req.ProfessorID == "" {
		req.ProfessorID = actor.ID
	}
	if req.ProfessorID != actor.ID {
		return nil, reject(Forbidden, "professors can only publish their own availability")
	}

	d := &draft{
		actor:       actor,
		professorID: req.ProfessorID,
		rawDate:     req.Date,
		rawStart:    req.StartTime,
		rawEnd:      req.EndTime,
		day:         req.Day,
	}
	if err := s.run(ctx, d, s.requireFields, s.notInPast, s.timeOrdered); err != nil {
		return nil, err
	}

	_, err := s.store.FindSlot(ctx, d.professorID, d.date, d.start, d.end)
	if err == nil {
		return nil, reject(DuplicateSlot, "availability already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, infra("find slot", err)
	}

	slot := &model.AvailabilitySlot{
		ID:          uuid.New().String(),
		ProfessorID: d.professorID,
		Date:        d.date,
		Start:       d.start,
		End:         d.end,
		Day:         d.day,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateSlot(ctx, slot); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, reject(DuplicateSlot, "availability already exists")
		}
		return nil, infra("create slot", err)
	}
	if s.slots != nil {
		s.slots.Delete(slot.ProfessorID)
	}
	return slot, nil
}

// GetAvailability lists a professor's slots by date, then start time.
func (s *Service) GetAvailability(ctx context.Context, professorID string) ([]model.AvailabilitySlot, error) {
	if professorID == "" {
		rej := reject(MissingFields, "professor id required")
		rej.Fields = []string{"professorId"}
		return nil, rej
	}
	if s.slots != nil {
		if v, ok := s.slots.Get(professorID); ok {
			return slices.Clone(v.([]model.AvailabilitySlot)), nil
		}
	}
	slots, err := s.store.ListSlots(ctx, professorID)
	if err != nil {
		return nil, infra("list slots", err)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Start < slots[j].Start
	})
	if slots == nil {
		slots = []model.AvailabilitySlot{}
	}
	if s.slots != nil {
		s.slots.SetDefault(professorID, slices.Clone(slots))
	}
	return slots, nil
}

// ViewAvailability is GetAvailability for students: the professor must exist.
func (s *Service) ViewAvailability(ctx context.Context, professorID string) ([]model.AvailabilitySlot, error) {
	if professorID != "" {
		if err := s.expectRole(ctx, professorID, model.RoleProfessor, PartyProfessor); err != nil {
			return nil, err
		}
	}
	return s.GetAvailability(ctx, professorID)
}
