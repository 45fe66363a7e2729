package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-scheduler/internal/model"
)

func withParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func findOverlapping(tx *gorm.DB, participants []string, date string, start, end model.Clock) ([]model.Appointment, error) {
	ids := tx.Model(&participantRow{}).
		Select("appointment_id").
		Where("user_id IN ? AND active = ? AND appt_date = ? AND start_minute < ? AND end_minute > ?",
			participants, true, date, int(end), int(start))

	var rows []appointmentRow
	err := withParticipants(tx).
		Where("id IN (?)", ids).
		Order("start_minute").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// FindOverlapping returns the non-canceled appointments of any participant
// that intersect [start, end) on date.
func (s *Store) FindOverlapping(ctx context.Context, participants []string, date string, start, end model.Clock) ([]model.Appointment, error) {
	return findOverlapping(s.db.WithContext(ctx), participants, date, start, end)
}

// Commit re-checks overlap and inserts in one transaction.
func (s *Store) Commit(ctx context.Context, a *model.Appointment) error {
	var err error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			hits, err := findOverlapping(tx, a.Participants, a.Date, a.Start, a.End)
			if err != nil {
				return err
			}
			if len(hits) > 0 {
				return model.ErrConflict
			}
			row := toAppointmentRow(a)
			if err := tx.Omit("Participants").Create(&row).Error; err != nil {
				return err
			}
			return tx.Create(&row.Participants).Error
		}, s.txOptions()...)
		if !isSerializationFailure(err) {
			break
		}
	}
	if isUniqueViolation(err) || isSerializationFailure(err) {
		return model.ErrConflict
	}
	return err
}

func (s *Store) FindAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	var row appointmentRow
	if err := withParticipants(s.db.WithContext(ctx)).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	a := row.toModel()
	return &a, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&appointmentRow{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{"status": string(to), "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrConflict
		}
		if to != model.StatusCanceled {
			return nil
		}
		return tx.Model(&participantRow{}).
			Where("appointment_id = ?", id).
			Update("active", false).Error
	})
}

func (s *Store) ListAppointments(ctx context.Context, participant string, status model.Status) ([]model.Appointment, error) {
	db := s.db.WithContext(ctx)
	ids := db.Model(&participantRow{}).Select("appointment_id").Where("user_id = ?", participant)

	q := withParticipants(db).Where("id IN (?)", ids)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var rows []appointmentRow
	if err := q.Order("appt_date, start_minute").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// CompleteEnded marks booked appointments ending at or before minute on date,
// or on any earlier date, as completed.
func (s *Store) CompleteEnded(ctx context.Context, date string, minute model.Clock, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&appointmentRow{}).
		Where("status = ? AND (appt_date < ? OR (appt_date = ? AND end_minute <= ?))",
			string(model.StatusBooked), date, date, int(minute)).
		Updates(map[string]any{"status": string(model.StatusCompleted), "updated_at": at})
	return res.RowsAffected, res.Error
}
