package transmit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardano-foundation/wallet-submission/scheduler"
	"github.com/cardano-foundation/wallet-submission/transmit"
)

func TestLocalTransmitsInOrder(t *testing.T) {
	local := transmit.NewLocal(4)
	fn := local.TransmitFunc()

	a := scheduler.SendEvent{Id: scheduler.TxIdFromBytes([]byte{1})}
	b := scheduler.SendEvent{Id: scheduler.TxIdFromBytes([]byte{2})}
	fn([]scheduler.SendEvent{a, b})

	select {
	case got := <-local.Events():
		require.Equal(t, a.Id, got.Id)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first event")
	}
	select {
	case got := <-local.Events():
		require.Equal(t, b.Id, got.Id)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for second event")
	}
}
