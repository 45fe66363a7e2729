package gormstore

import (
	"context"

	"campus-scheduler/internal/model"
)

func (s *Store) CreateSlot(ctx context.Context, slot *model.AvailabilitySlot) error {
	row := slotRow{
		ID:          slot.ID,
		ProfessorID: slot.ProfessorID,
		SlotDate:    slot.Date,
		StartMinute: int(slot.Start),
		EndMinute:   int(slot.End),
		Day:         slot.Day,
		CreatedAt:   slot.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) FindSlot(ctx context.Context, professorID, date string, start, end model.Clock) (*model.AvailabilitySlot, error) {
	var row slotRow
	err := s.db.WithContext(ctx).
		Where("professor_id = ? AND slot_date = ? AND start_minute = ? AND end_minute = ?",
			professorID, date, int(start), int(end)).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	slot := row.toModel()
	return &slot, nil
}

func (s *Store) ListSlots(ctx context.Context, professorID string) ([]model.AvailabilitySlot, error) {
	var rows []slotRow
	err := s.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("slot_date, start_minute").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.AvailabilitySlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}
