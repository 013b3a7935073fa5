package scheduler_test

import (
	"testing"

	"github.com/cardano-foundation/wallet-submission/scheduler"
	"github.com/stretchr/testify/require"
)

func send(b byte) scheduler.SendEvent {
	return scheduler.SendEvent{Id: id(b), Aux: tx(b)}
}

func TestSchedulePrependMostRecentFirst(t *testing.T) {
	sched := scheduler.NewSchedule()
	sched.Prepend(3, scheduler.ScheduleEvents{Sends: []scheduler.SendEvent{send(1), send(2)}})
	sched.Prepend(3, scheduler.ScheduleEvents{Sends: []scheduler.SendEvent{send(3)}})

	b := sched.At(3)
	require.Len(t, b.ToSend, 3)
	require.Equal(t, id(3), b.ToSend[0].Id)
	require.Equal(t, id(1), b.ToSend[1].Id)
	require.Equal(t, id(2), b.ToSend[2].Id)
}

func TestSchedulePopRemovesSlotOnly(t *testing.T) {
	sched := scheduler.NewSchedule()
	sched.Prepend(1, scheduler.ScheduleEvents{Sends: []scheduler.SendEvent{send(1)}})
	sched.Prepend(2, scheduler.ScheduleEvents{Confirms: []scheduler.ConfirmEvent{{Id: id(2)}}})
	sched.SetNursery([]scheduler.SendEvent{send(9)})

	b := sched.Pop(1)
	require.Len(t, b.ToSend, 1)
	require.Empty(t, sched.At(1).ToSend)

	// the other slot and the nursery survive the pop
	require.Equal(t, []scheduler.Slot{2}, sched.Slots())
	require.Len(t, sched.Nursery(), 1)

	// popping an absent slot yields an empty bucket
	empty := sched.Pop(7)
	require.Empty(t, empty.ToSend)
	require.Empty(t, empty.ToConfirm)
}

func TestScheduleNurseryIsReplacedNotMerged(t *testing.T) {
	sched := scheduler.NewSchedule()
	sched.SetNursery([]scheduler.SendEvent{send(1), send(2)})
	sched.SetNursery([]scheduler.SendEvent{send(3)})

	n := sched.Nursery()
	require.Len(t, n, 1)
	require.Equal(t, id(3), n[0].Id)
}
