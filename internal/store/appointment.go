package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"campus-scheduler/internal/model"
)

// querier is satisfied by the pool and by a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const appointmentColumns = `id, kind, professor_id, student_id, initiator_id, appt_date,
	start_minute, end_minute, day, status, created_at, updated_at`

const overlapCond = `user_id = ANY($1) AND active AND appt_date = $2
	AND start_minute < $4 AND end_minute > $3`

// Commit re-runs the overlap check and inserts inside one SERIALIZABLE
// transaction, retrying serialization failures.
func (s *Store) Commit(ctx context.Context, a *model.Appointment) error {
	var err error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err = s.commitOnce(ctx, a)
		if !isSerializationFailure(err) {
			break
		}
	}
	if isUniqueViolation(err) || isSerializationFailure(err) {
		return model.ErrConflict
	}
	return err
}

func (s *Store) commitOnce(ctx context.Context, a *model.Appointment) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var clash bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM appointment_participants WHERE `+overlapCond+`)`,
		a.Participants, a.Date, int(a.Start), int(a.End),
	).Scan(&clash)
	if err != nil {
		return err
	}
	if clash {
		return model.ErrConflict
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO appointments (id, kind, professor_id, student_id, initiator_id, appt_date,
		                           start_minute, end_minute, day, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, string(a.Kind), a.ProfessorID, a.StudentID, a.InitiatorID, a.Date,
		int(a.Start), int(a.End), a.Day, string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return err
	}

	active := a.Status != model.StatusCanceled
	for i, uid := range a.Participants {
		_, err = tx.Exec(ctx,
			`INSERT INTO appointment_participants
			   (appointment_id, user_id, appt_date, start_minute, end_minute, position, active)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			a.ID, uid, a.Date, int(a.Start), int(a.End), i, active,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) FindOverlapping(ctx context.Context, participants []string, date string, start, end model.Clock) ([]model.Appointment, error) {
	return s.queryAppointments(ctx, s.pool,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE id IN (SELECT appointment_id FROM appointment_participants WHERE `+overlapCond+`)
		 ORDER BY start_minute`,
		participants, date, int(start), int(end),
	)
}

func (s *Store) FindAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	out, err := s.queryAppointments(ctx, s.pool,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, model.ErrNotFound
	}
	return &out[0], nil
}

func (s *Store) ListAppointments(ctx context.Context, participant string, status model.Status) ([]model.Appointment, error) {
	q := `SELECT ` + appointmentColumns + ` FROM appointments
		 WHERE id IN (SELECT appointment_id FROM appointment_participants WHERE user_id = $1)`
	args := []any{participant}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, string(status))
	}
	q += ` ORDER BY appt_date, start_minute`
	return s.queryAppointments(ctx, s.pool, q, args...)
}

func (s *Store) UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), at, id, string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConflict
	}

	// canceled rows leave the uniqueness index
	if to == model.StatusCanceled {
		if _, err := tx.Exec(ctx,
			`UPDATE appointment_participants SET active = false WHERE appointment_id = $1`, id,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) CompleteEnded(ctx context.Context, date string, minute model.Clock, at time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2
		 WHERE status = $3 AND (appt_date < $4 OR (appt_date = $4 AND end_minute <= $5))`,
		string(model.StatusCompleted), at, string(model.StatusBooked), date, int(minute),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) queryAppointments(ctx context.Context, q querier, sql string, args ...any) ([]model.Appointment, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		var kind, status string
		var start, end int
		if err := rows.Scan(
			&a.ID, &kind, &a.ProfessorID, &a.StudentID, &a.InitiatorID, &a.Date,
			&start, &end, &a.Day, &status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.Kind, a.Status = model.Kind(kind), model.Status(status)
		a.Start, a.End = model.Clock(start), model.Clock(end)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	return out, s.loadParticipants(ctx, q, out)
}

func (s *Store) loadParticipants(ctx context.Context, q querier, appts []model.Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	idx := make(map[string]int, len(appts))
	ids := make([]string, len(appts))
	for i, a := range appts {
		idx[a.ID] = i
		ids[i] = a.ID
	}

	rows, err := q.Query(ctx,
		`SELECT appointment_id, user_id FROM appointment_participants
		 WHERE appointment_id = ANY($1) ORDER BY appointment_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var apptID, uid string
		if err := rows.Scan(&apptID, &uid); err != nil {
			return err
		}
		i := idx[apptID]
		appts[i].Participants = append(appts[i].Participants, uid)
	}
	return rows.Err()
}
