// Package submission wires together the pending-set scheduler, a libp2p
// transmit capability and a slot driver into the ready-to-run service the
// rest of the wallet embeds.
package submission

import (
	"context"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/rs/zerolog"

	"github.com/cardano-foundation/wallet-submission/driver"
	"github.com/cardano-foundation/wallet-submission/scheduler"
	"github.com/cardano-foundation/wallet-submission/transmit"
)

// Config bundles the parameters needed to stand up a running submission
// pipeline over a live libp2p host.
type Config struct {
	// Namespace is the pubsub topic transaction blobs are published to.
	// Defaults to transmit.DefaultTopic when empty.
	Namespace string
	// SlotInterval is the wall-clock duration between ticks.
	SlotInterval time.Duration
	// Retry is the retry policy governing resubmission. Defaults to
	// scheduler.ConstantRetry(0, 10) when nil.
	Retry  scheduler.RetryPolicy
	Logger zerolog.Logger
}

// New spins up a gossipsub router on h, joins Config.Namespace, wires a
// scheduler over the resulting broadcaster, and returns both the scheduler
// (for AddPending/RemPending) and a driver that ticks it on
// Config.SlotInterval. The caller owns the driver's lifecycle (Start/Stop);
// ctx bounds the lifetime of the pubsub router.
func New(ctx context.Context, h host.Host, cfg Config) (*scheduler.Scheduler, *driver.Driver, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = transmit.DefaultTopic
	}
	retry := cfg.Retry
	if retry == nil {
		retry = scheduler.ConstantRetry(0, 10)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		return nil, nil, err
	}
	broadcaster, err := transmit.NewLibP2P(ps, namespace, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(
		scheduler.DefaultResubmissionFunc(broadcaster.TransmitFunc(), retry),
		scheduler.WithLogger(cfg.Logger),
	)

	d := driver.New(sched, driver.Config{SlotInterval: cfg.SlotInterval}, nil, nil).WithLogger(cfg.Logger)

	return sched, d, nil
}
