package scheduler

import "sort"

// SendEvent is an obligation to transmit a specific transaction in a
// specific slot with a given attempt count.
type SendEvent struct {
	Id    TxId
	Aux   TxAux
	Count uint64
}

// ConfirmEvent is an obligation to check, at a specific slot, whether a
// transaction is still pending; if so, it is evicted.
type ConfirmEvent struct {
	Id TxId
}

// Bucket holds the events scheduled for a single slot. Order within each
// list is insertion order.
type Bucket struct {
	ToSend    []SendEvent
	ToConfirm []ConfirmEvent
}

// ScheduleEvents is the payload accepted by Schedule.Prepend: a batch of
// send and confirm events destined for the same slot.
type ScheduleEvents struct {
	Sends    []SendEvent
	Confirms []ConfirmEvent
}

// Schedule maps slots to buckets of outstanding send/confirm events, plus a
// nursery of send events deferred by dependency gating.
type Schedule struct {
	buckets map[int64]Bucket
	// nursery holds send events deferred from a previous tick because an
	// ancestor was not yet ready. It is replaced, never merged, each tick
	// the previous nursery is always already included in
	// that tick's candidate set.
	nursery []SendEvent
}

// NewSchedule returns an empty schedule.
func NewSchedule() Schedule {
	return Schedule{buckets: make(map[int64]Bucket)}
}

// Pop returns the bucket scheduled for slot (empty if none) and removes
// that slot's entry from the schedule. The nursery is left untouched.
func (s *Schedule) Pop(slot Slot) Bucket {
	key := slot.AsKey()
	b := s.buckets[key]
	delete(s.buckets, key)
	return b
}

// Prepend concatenates events into the bucket at slot, creating it if
// absent. Successive Prepend calls to the same slot are associative but not
// commutative: the most recent prepend's events come first within the
// bucket, matching the "most recently retried event is scheduled soonest
// within its slot" ordering used by the resubmission function.
func (s *Schedule) Prepend(slot Slot, events ScheduleEvents) {
	key := slot.AsKey()
	b := s.buckets[key]
	b.ToSend = append(append([]SendEvent{}, events.Sends...), b.ToSend...)
	b.ToConfirm = append(append([]ConfirmEvent{}, events.Confirms...), b.ToConfirm...)
	s.buckets[key] = b
}

// Slots returns the slots that currently hold a scheduled bucket, in
// ascending key order.
func (s Schedule) Slots() []Slot {
	keys := make([]int64, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	slots := make([]Slot, len(keys))
	for i, k := range keys {
		slots[i] = Slot(uint64(k))
	}
	return slots
}

// At returns the bucket scheduled for slot without removing it. The empty
// bucket is returned when nothing is scheduled there.
func (s Schedule) At(slot Slot) Bucket {
	return s.buckets[slot.AsKey()]
}

// SetNursery replaces the nursery wholesale.
func (s *Schedule) SetNursery(events []SendEvent) {
	s.nursery = events
}

// Nursery returns the current nursery contents.
func (s *Schedule) Nursery() []SendEvent {
	return s.nursery
}

// clone returns a deep copy, used by Scheduler.Snapshot.
func (s Schedule) clone() Schedule {
	cp := Schedule{buckets: make(map[int64]Bucket, len(s.buckets))}
	for k, b := range s.buckets {
		cp.buckets[k] = Bucket{
			ToSend:    append([]SendEvent{}, b.ToSend...),
			ToConfirm: append([]ConfirmEvent{}, b.ToConfirm...),
		}
	}
	cp.nursery = append([]SendEvent{}, s.nursery...)
	return cp
}
