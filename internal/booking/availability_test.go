package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/model"
)

func TestAddAvailability(t *testing.T) {
	e := setup(t, true)
	ctx := context.Background()
	p := e.user(t, model.RoleProfessor)
	other := e.user(t, model.RoleProfessor)
	s := e.user(t, model.RoleStudent)

	slot, err := e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "12:00 PM"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, slot.ProfessorID)
	assert.Equal(t, "Saturday", slot.Day)

	// same slot in another spelling is still a duplicate
	_, err = e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20", StartTime: "10:00am", EndTime: "12:00"})
	assertReason(t, err, booking.DuplicateSlot)

	// overlapping but not identical is accepted
	_, err = e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20", StartTime: "11:00 AM", EndTime: "1:00 PM"})
	assert.NoError(t, err)

	_, err = e.svc.AddAvailability(ctx, s, booking.SlotRequest{Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "12:00 PM"})
	assertReason(t, err, booking.Forbidden)
	_, err = e.svc.AddAvailability(ctx, other, booking.SlotRequest{ProfessorID: p.ID, Date: "2025-12-20", StartTime: "1:00 PM", EndTime: "2:00 PM"})
	assertReason(t, err, booking.Forbidden)

	_, err = e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-11-01", StartTime: "10:00 AM", EndTime: "11:00 AM"})
	assertReason(t, err, booking.PastDate)
	_, err = e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20", StartTime: "3:00 PM", EndTime: "2:00 PM"})
	assertReason(t, err, booking.InvalidTimeOrder)
	rej := assertReason(t, func() error {
		_, err := e.svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20"})
		return err
	}(), booking.MissingFields)
	assert.Equal(t, []string{"startTime", "endTime"}, rej.Fields)
}

func TestGetAvailabilityOrdered(t *testing.T) {
	e := setup(t, false)
	ctx := context.Background()
	p := e.user(t, model.RoleProfessor)

	for _, in := range []booking.SlotRequest{
		{Date: "2025-12-21", StartTime: "9:00 AM", EndTime: "10:00 AM"},
		{Date: "2025-12-20", StartTime: "1:00 PM", EndTime: "2:00 PM"},
		{Date: "2025-12-20", StartTime: "9:00 AM", EndTime: "10:00 AM"},
	} {
		_, err := e.svc.AddAvailability(ctx, p, in)
		require.NoError(t, err)
	}

	slots, err := e.svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "2025-12-20", slots[0].Date)
	assert.Equal(t, "9:00 AM", slots[0].Start.String())
	assert.Equal(t, "1:00 PM", slots[1].Start.String())
	assert.Equal(t, "2025-12-21", slots[2].Date)

	none, err := e.svc.GetAvailability(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestViewAvailabilityRequiresProfessor(t *testing.T) {
	e := setup(t, false)
	ctx := context.Background()
	s := e.user(t, model.RoleStudent)

	_, err := e.svc.ViewAvailability(ctx, s.ID)
	rej := assertReason(t, err, booking.ParticipantNotFound)
	assert.Equal(t, booking.PartyProfessor, rej.Party)

	_, err = e.svc.ViewAvailability(ctx, "")
	assertReason(t, err, booking.MissingFields)
}

func TestCachedAvailabilityEvictedOnAdd(t *testing.T) {
	e := setup(t, true)
	ctx := context.Background()
	svc := booking.New(e.st, booking.Options{
		RequireAvailability: true,
		Now:                 func() time.Time { return fixedNow },
		SlotCacheTTL:        time.Minute,
	})
	p := e.user(t, model.RoleProfessor)

	got, err := svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.AddAvailability(ctx, p, booking.SlotRequest{Date: "2025-12-20", StartTime: "2:00 PM", EndTime: "4:00 PM"})
	require.NoError(t, err)

	got, err = svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2:00 PM", got[0].Start.String())

	got[0].Start = 0
	again, err := svc.ViewAvailability(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "2:00 PM", again[0].Start.String())
}
