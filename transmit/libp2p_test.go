package transmit_test

import (
	"context"
	"testing"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cardano-foundation/wallet-submission/scheduler"
	"github.com/cardano-foundation/wallet-submission/transmit"
)

type collector struct {
	anns chan *transmit.Announcement
}

func makeCollector() *collector {
	return &collector{anns: make(chan *transmit.Announcement, 4)}
}

func (c *collector) OnTransaction(ctx context.Context, ann *transmit.Announcement) error {
	select {
	case c.anns <- ann:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *collector) next(ctx context.Context, t *testing.T) *transmit.Announcement {
	t.Helper()
	select {
	case ann := <-c.anns:
		return ann
	case <-ctx.Done():
		t.Fatal("timed out waiting for announcement")
		return nil
	}
}

func setupBroadcasters(ctx context.Context, t *testing.T, n int) []*transmit.LibP2P {
	t.Helper()
	mn, err := mocknet.FullMeshLinked(n)
	require.NoError(t, err)

	broadcasters := make([]*transmit.LibP2P, n)
	for i := range broadcasters {
		ps, err := pubsub.NewGossipSub(ctx, mn.Hosts()[i])
		require.NoError(t, err)
		broadcasters[i], err = transmit.NewLibP2P(ps, transmit.DefaultTopic, zerolog.Nop())
		require.NoError(t, err)
	}

	require.NoError(t, mn.ConnectAllButSelf())
	t.Cleanup(func() {
		for _, b := range broadcasters {
			require.NoError(t, b.Close())
		}
	})
	return broadcasters
}

func TestLibP2PBroadcastReachesPeers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	broadcasters := setupBroadcasters(ctx, t, 2)
	b0, b1 := broadcasters[0], broadcasters[1]

	nt0, nt1 := makeCollector(), makeCollector()
	b0.Notify(nt0)
	b1.Notify(nt1)

	producer := scheduler.TxIdFromBytes([]byte{0xCD})
	ev := scheduler.SendEvent{
		Id: scheduler.TxIdFromBytes([]byte{0xAB}),
		Aux: scheduler.TxAux{
			Payload: []byte{1, 2, 3},
			Inputs:  []scheduler.Outpoint{scheduler.NewOutpoint(producer, 1)},
		},
	}
	b0.TransmitFunc()([]scheduler.SendEvent{ev})

	// both the sender and the remote peer observe the announcement
	for _, nt := range []*collector{nt0, nt1} {
		ann := nt.next(ctx, t)
		require.Equal(t, ev.Id, ann.Id)
		require.Equal(t, []byte{1, 2, 3}, ann.Payload)
		require.Len(t, ann.Inputs, 1)
		require.Equal(t, producer, ann.Inputs[0].Producer)
	}
}
