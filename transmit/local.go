package transmit

import "github.com/cardano-foundation/wallet-submission/scheduler"

// Local is an in-process transmitter that pushes every send event onto a
// channel instead of touching the network. It exists for tests and for
// single-process demos that want to observe exactly what the scheduler
// would have broadcast.
type Local struct {
	out chan scheduler.SendEvent
}

// NewLocal returns a Local transmitter whose channel is buffered to
// capacity (0 means unbuffered; TransmitFunc blocks until drained).
func NewLocal(capacity int) *Local {
	return &Local{out: make(chan scheduler.SendEvent, capacity)}
}

// Events returns the channel send events are pushed onto.
func (l *Local) Events() <-chan scheduler.SendEvent {
	return l.out
}

// TransmitFunc returns a scheduler.TransmitFunc that pushes each event onto
// the channel, in order.
func (l *Local) TransmitFunc() scheduler.TransmitFunc {
	return func(events []scheduler.SendEvent) {
		for _, ev := range events {
			l.out <- ev
		}
	}
}

// Close closes the underlying channel. Callers must ensure no further
// TransmitFunc invocations occur afterward.
func (l *Local) Close() {
	close(l.out)
}
