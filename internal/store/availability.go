package store

import (
	"context"

	"campus-scheduler/internal/model"
)

func (s *Store) CreateSlot(ctx context.Context, slot *model.AvailabilitySlot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO availability_slots (id, professor_id, slot_date, start_minute, end_minute, day, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		slot.ID, slot.ProfessorID, slot.Date, int(slot.Start), int(slot.End), slot.Day, slot.CreatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrConflict
	}
	return err
}

const slotColumns = `id, professor_id, slot_date, start_minute, end_minute, day, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(row scanner) (model.AvailabilitySlot, error) {
	var sl model.AvailabilitySlot
	var start, end int
	err := row.Scan(&sl.ID, &sl.ProfessorID, &sl.Date, &start, &end, &sl.Day, &sl.CreatedAt)
	sl.Start, sl.End = model.Clock(start), model.Clock(end)
	return sl, err
}

func (s *Store) FindSlot(ctx context.Context, professorID, date string, start, end model.Clock) (*model.AvailabilitySlot, error) {
	sl, err := scanSlot(s.pool.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM availability_slots
		 WHERE professor_id = $1 AND slot_date = $2 AND start_minute = $3 AND end_minute = $4`,
		professorID, date, int(start), int(end),
	))
	if err != nil {
		return nil, notFound(err)
	}
	return &sl, nil
}

func (s *Store) ListSlots(ctx context.Context, professorID string) ([]model.AvailabilitySlot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+slotColumns+` FROM availability_slots
		 WHERE professor_id = $1
		 ORDER BY slot_date, start_minute`, professorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AvailabilitySlot{}
	for rows.Next() {
		sl, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}
