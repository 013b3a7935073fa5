package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardano-foundation/wallet-submission/driver"
	"github.com/cardano-foundation/wallet-submission/scheduler"
)

func TestDriverTicksUntilStopped(t *testing.T) {
	var sent int
	transmit := func(events []scheduler.SendEvent) { sent += len(events) }
	sched := scheduler.New(scheduler.DefaultResubmissionFunc(transmit, scheduler.ConstantRetry(0, 10)))
	sched.AddPending(map[scheduler.TxId]scheduler.TxAux{
		scheduler.TxIdFromBytes([]byte{1}): {Payload: []byte{1}},
	})

	var reports int
	d := driver.New(sched, driver.Config{SlotInterval: 10 * time.Millisecond}, nil, func(scheduler.TickReport) {
		reports++
	})

	require.NoError(t, d.Start(context.Background()))
	require.True(t, d.IsRunning())

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, d.Stop())
	require.False(t, d.IsRunning())
	require.Greater(t, reports, 0)
	require.Greater(t, sent, 0)
}

func TestDriverRejectsDoubleStart(t *testing.T) {
	sched := scheduler.New(scheduler.DefaultResubmissionFunc(func([]scheduler.SendEvent) {}, scheduler.ConstantRetry(0, 1)))
	d := driver.New(sched, driver.Config{SlotInterval: time.Second}, nil, nil)

	require.NoError(t, d.Start(context.Background()))
	require.Error(t, d.Start(context.Background()))
	require.NoError(t, d.Stop())
}
