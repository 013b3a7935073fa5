package scheduler_test

import (
	"testing"

	"github.com/cardano-foundation/wallet-submission/scheduler"
	"github.com/stretchr/testify/require"
)

func TestPendingUnionIsLeftBiased(t *testing.T) {
	p := scheduler.NewPending()
	p.Union(map[scheduler.TxId]scheduler.TxAux{id(1): {Payload: []byte("old")}})
	p.Union(map[scheduler.TxId]scheduler.TxAux{
		id(1): {Payload: []byte("new")},
		id(2): {Payload: []byte("other")},
	})

	got, ok := p.Get(id(1))
	require.True(t, ok)
	require.Equal(t, []byte("old"), got.Payload)
	require.Equal(t, 2, p.Len())
}

func TestPendingDifferenceIgnoresMissing(t *testing.T) {
	p := scheduler.NewPending()
	p.Union(map[scheduler.TxId]scheduler.TxAux{id(1): tx(1)})
	p.Difference([]scheduler.TxId{id(1), id(2), id(3)})
	require.Equal(t, 0, p.Len())
	require.False(t, p.Contains(id(1)))
}

func TestPendingIterIsSorted(t *testing.T) {
	p := scheduler.NewPending()
	p.Union(map[scheduler.TxId]scheduler.TxAux{
		id(3): tx(3),
		id(1): tx(1),
		id(2): tx(2),
	})
	require.Equal(t, []scheduler.TxId{id(1), id(2), id(3)}, p.Iter())
}
