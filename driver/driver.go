// Package driver runs a scheduler.Scheduler's tick loop on a wall-clock
// ticker, wired the way the accompanying repository wires its long-running
// engines: an atomic run flag, a cancellable context, and a done channel
// signalling exit.
package driver

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cardano-foundation/wallet-submission/scheduler"
)

// Config configures a Driver.
type Config struct {
	// SlotInterval is the wall-clock duration between ticks.
	SlotInterval time.Duration
}

// OnError is invoked with the loop-detection error whenever a tick aborts
// on a dependency cycle.
type OnError func(*scheduler.ErrLoopDetected)

// OnEvicted is invoked once per tick with that tick's report, including
// ticks that evicted nothing, so callers can observe every slot. A tick
// aborted by a dependency loop also invokes it, with a report that carries
// only the slot.
type OnEvicted func(scheduler.TickReport)

// Driver ticks a Scheduler on a fixed wall-clock interval until stopped.
type Driver struct {
	sched  *scheduler.Scheduler
	config Config
	logger zerolog.Logger

	onError   OnError
	onEvicted OnEvicted

	status atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Driver over sched. onError and onEvicted may be nil.
func New(sched *scheduler.Scheduler, config Config, onError OnError, onEvicted OnEvicted) *Driver {
	return &Driver{
		sched:     sched,
		config:    config,
		logger:    zerolog.New(os.Stdout),
		onError:   onError,
		onEvicted: onEvicted,
	}
}

// WithLogger overrides the driver's logger. Must be called before Start.
func (d *Driver) WithLogger(l zerolog.Logger) *Driver {
	d.logger = l
	return d
}

// Start begins ticking sched every SlotInterval until ctx is cancelled or
// Stop is called. It returns an error if the driver is already running.
func (d *Driver) Start(ctx context.Context) error {
	if !d.status.CompareAndSwap(false, true) {
		return errors.New("driver already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.run(ctx)
	return nil
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)
	defer d.status.Store(false)

	ticker := time.NewTicker(d.config.SlotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tickOnce()
		}
	}
}

func (d *Driver) tickOnce() {
	slot := d.sched.CurrentSlot()
	_, report := d.sched.Tick(func(err *scheduler.ErrLoopDetected) {
		d.logger.Error().Err(err).Uint64("slot", uint64(slot)).Msg("dependency loop detected, tick aborted")
		if d.onError != nil {
			d.onError(err)
		}
	})

	if len(report.Evicted) > 0 {
		d.logger.Info().Int("count", len(report.Evicted)).Msg("evicted unconfirmed transactions")
	}
	if d.onEvicted != nil {
		d.onEvicted(report)
	}
}

// Stop cancels the tick loop and blocks until it has exited.
func (d *Driver) Stop() error {
	if !d.status.Load() {
		return errors.New("driver is not running")
	}
	d.cancel()
	<-d.Wait()
	return nil
}

// IsRunning reports whether the driver's tick loop is active.
func (d *Driver) IsRunning() bool {
	return d.status.Load()
}

// Wait returns a channel closed when the tick loop exits.
func (d *Driver) Wait() <-chan struct{} {
	return d.done
}
