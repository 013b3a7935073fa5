package scheduler

import (
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// TickReport summarises the bookkeeping performed by a single Tick call, for
// callers that want more than the bare evicted-id list (e.g. a driver
// logging or exporting metrics per tick).
type TickReport struct {
	// Slot is the slot that was processed (the scheduler's current_slot
	// before this tick).
	Slot Slot
	// Sent holds the events the resubmission function's transmit callback
	// was invoked with.
	Sent []SendEvent
	// Deferred holds the events moved into the nursery this tick.
	Deferred []SendEvent
	// Evicted holds the ids pruned from the pending set this tick.
	Evicted []TxId
}

// Scheduler owns the pending set, the per-slot schedule, the current slot
// and the resubmission function. It performs per-tick topological sorting,
// nursery maintenance and eviction computation.
//
// A Scheduler is not safe for concurrent use; callers that tick and mutate
// it from multiple goroutines must serialise access themselves (see the
// driver package for a single-goroutine lifecycle wrapper).
type Scheduler struct {
	pending     Pending
	schedule    Schedule
	currentSlot Slot
	resubmit    ResubmissionFunc

	logger       zerolog.Logger
	metricsLabel string
}

// New constructs a Scheduler starting at slot 0 with an empty pending set
// and schedule, driven by resubmit.
func New(resubmit ResubmissionFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		pending:      NewPending(),
		schedule:     NewSchedule(),
		currentSlot:  0,
		resubmit:     resubmit,
		logger:       zerolog.New(os.Stdout),
		metricsLabel: defaultMetricsLabel,
	}
	for _, opt := range opts {
		opt(s)
	}
	initMetrics()
	return s
}

// AddPending unions batch into the pending set, then schedules one send
// event per id at current_slot + 1 with submission count 0.
func (s *Scheduler) AddPending(batch map[TxId]TxAux) {
	s.pending.Union(batch)

	sends := make([]SendEvent, 0, len(batch))
	for _, id := range sortedKeys(batch) {
		sends = append(sends, SendEvent{Id: id, Aux: batch[id], Count: 0})
	}
	if len(sends) > 0 {
		s.schedule.Prepend(s.currentSlot.Next(), ScheduleEvents{Sends: sends})
	}

	pendingSetSize.With(s.metricLabels()).Set(float64(s.pending.Len()))
}

func sortedKeys(batch map[TxId]TxAux) []TxId {
	ids := make([]TxId, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// RemPending removes ids from the pending set. The schedule is not pruned;
// stale send events are filtered lazily during Tick.
func (s *Scheduler) RemPending(ids []TxId) {
	s.pending.Difference(ids)
	pendingSetSize.With(s.metricLabels()).Set(float64(s.pending.Len()))
}

// AddToSchedule is an escape hatch for callers (tests, or resubmission
// functions) that wish to splice extra events directly into the schedule.
// It behaves as Prepend(slot, ScheduleEvents(sends, confirms)).
func (s *Scheduler) AddToSchedule(slot Slot, sends []SendEvent, confirms []ConfirmEvent) {
	s.schedule.Prepend(slot, ScheduleEvents{Sends: sends, Confirms: confirms})
}

// Tick advances the scheduler by one slot: it gathers this slot's due sends
// plus the nursery, topologically sorts them against each other's
// dependencies, transmits and reschedules the ones judged ready, and evicts
// any ids confirmed due this slot. onError, if non-nil, is invoked with the
// detected cycle when candidates for this slot form a dependency loop; in
// that case Tick performs no state mutation whatsoever — the pop only
// happens after the topological sort succeeds, so a LoopDetected tick is a
// true no-op.
func (s *Scheduler) Tick(onError func(*ErrLoopDetected)) ([]TxId, TickReport) {
	slot := s.currentSlot

	// Peek without mutating: only Pop once the topological sort succeeds.
	bucket := s.schedule.buckets[slot.AsKey()]

	candidates := make([]SendEvent, 0, len(bucket.ToSend)+len(s.schedule.nursery))
	candidates = append(candidates, bucket.ToSend...)
	candidates = append(candidates, s.schedule.nursery...)
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if s.pending.Contains(c.Id) {
			filtered = append(filtered, c)
			continue
		}
		s.logger.Warn().Str("tx", c.Id.String()).Uint64("slot", uint64(slot)).
			Msg("dropped phantom send: id no longer pending")
	}

	sorted, err := topoSort(filtered)
	if err != nil {
		loopsDetected.With(s.metricLabels()).Inc()
		if le, ok := isLoopDetected(err); ok && onError != nil {
			onError(le)
		}
		return nil, TickReport{Slot: slot}
	}

	// Past this point the tick is committed: pop the bucket for real.
	s.schedule.Pop(slot)

	ready, deferred := partitionReady(sorted, s.pending)
	s.schedule.SetNursery(deferred)
	nurserySize.With(s.metricLabels()).Set(float64(len(deferred)))

	s.schedule = s.resubmit(slot, ready, s.schedule)
	if len(ready) > 0 {
		retransmittedTransactions.With(s.metricLabels()).Add(float64(len(ready)))
	}

	evicted := make([]TxId, 0, len(bucket.ToConfirm))
	for _, c := range bucket.ToConfirm {
		if s.pending.Contains(c.Id) {
			evicted = append(evicted, c.Id)
		}
	}
	s.RemPending(evicted)
	if len(evicted) > 0 {
		evictedTransactions.With(s.metricLabels()).Add(float64(len(evicted)))
	}

	s.currentSlot = slot.Next()

	s.logger.Debug().Uint64("slot", uint64(slot)).
		Int("sent", len(ready)).Int("deferred", len(deferred)).Int("evicted", len(evicted)).
		Msg("tick complete")

	return evicted, TickReport{
		Slot:     slot,
		Sent:     ready,
		Deferred: deferred,
		Evicted:  evicted,
	}
}

// partitionReady splits sorted into ready and deferred, walking front to
// back and tracking readyIds: an event is deferred iff any of its
// non-unknown input ids is still pending and not already in readyIds.
func partitionReady(sorted []SendEvent, pending Pending) (ready, deferred []SendEvent) {
	readyIds := make(map[TxId]bool, len(sorted))
	for _, ev := range sorted {
		blocked := false
		for _, dep := range ev.Aux.dependencies() {
			if pending.Contains(dep) && !readyIds[dep] {
				blocked = true
				break
			}
		}
		if blocked {
			deferred = append(deferred, ev)
			continue
		}
		ready = append(ready, ev)
		readyIds[ev.Id] = true
	}
	return ready, deferred
}

// Pending returns a deep copy of the current pending set. The result shares
// no state with the live scheduler, so calling its mutating methods (Union,
// Difference) has no effect on subsequent ticks.
func (s *Scheduler) Pending() Pending {
	return s.pending.clone()
}

// Schedule returns a deep copy of the current schedule. The result shares no
// state with the live scheduler, so calling its mutating methods (Pop,
// Prepend, SetNursery) has no effect on subsequent ticks.
func (s *Scheduler) Schedule() Schedule {
	return s.schedule.clone()
}

// CurrentSlot returns the slot the next Tick will process.
func (s *Scheduler) CurrentSlot() Slot {
	return s.currentSlot
}

// ResubmissionFunc returns the resubmission function this scheduler was
// constructed with.
func (s *Scheduler) ResubmissionFunc() ResubmissionFunc {
	return s.resubmit
}

// Snapshot returns a deep copy of the scheduler's pending set and schedule,
// safe for a caller to inspect or mutate without affecting the live
// scheduler.
func (s *Scheduler) Snapshot() (Pending, Schedule) {
	return s.pending.clone(), s.schedule.clone()
}
