package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/config"
	"campus-scheduler/internal/jobs"
	"campus-scheduler/internal/model"
	"campus-scheduler/internal/store/gormstore"
)

type countingCompleter struct {
	calls atomic.Int64
	err   error
}

func (c *countingCompleter) CompleteEnded(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestCompletionJobTicksUntilCanceled(t *testing.T) {
	c := &countingCompleter{err: errors.New("store down")}
	ctx, cancel := context.WithCancel(context.Background())
	done := jobs.StartCompletionJob(ctx, config.JobsConfig{CompleteEnabled: true, Interval: 5 * time.Millisecond}, c)

	require.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
}

func TestCompletionJobDisabled(t *testing.T) {
	c := &countingCompleter{}
	done := jobs.StartCompletionJob(context.Background(), config.JobsConfig{Interval: time.Millisecond}, c)
	<-done
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, c.calls.Load())
}

func TestCompletionJobCompletesEndedAppointments(t *testing.T) {
	st, err := gormstore.Open(gormstore.Config{
		Driver:   gormstore.DriverSQLite,
		DSN:      gormstore.MemoryDSN(),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	prof := &model.User{ID: "p1", Name: "John Doe", Email: "doe@college.edu", PasswordHash: "x", Role: model.RoleProfessor}
	stu := &model.User{ID: "s1", Name: "Jane Smith", Email: "smith@college.edu", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, st.CreateUser(ctx, prof))
	require.NoError(t, st.CreateUser(ctx, stu))

	var now atomic.Value
	now.Store(time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC))
	svc := booking.New(st, booking.Options{Now: func() time.Time { return now.Load().(time.Time) }})

	apt, err := svc.Book(ctx, booking.Actor{ID: "s1", Role: model.RoleStudent}, booking.Request{
		StudentID: "s1", ProfessorID: "p1", Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "10:30 AM",
	})
	require.NoError(t, err)

	now.Store(time.Date(2025, 12, 20, 11, 0, 0, 0, time.UTC))
	jctx, cancel := context.WithCancel(ctx)
	defer cancel()
	jobs.StartCompletionJob(jctx, config.JobsConfig{CompleteEnabled: true, Interval: 5 * time.Millisecond}, svc)

	require.Eventually(t, func() bool {
		got, err := st.FindAppointment(ctx, apt.ID)
		return err == nil && got.Status == model.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}
