package scheduler

// TransmitFunc broadcasts the blobs of the given send events. Its return
// value, if any, is not consulted by the scheduler: whether a transaction
// lands is observed later via RemPending, not via this call succeeding.
type TransmitFunc func(events []SendEvent)

// ResubmissionFunc is the higher-order operation `(slot, ready, schedule) ->
// schedule'` invoked once per tick with the events judged ready to send. It
// must not touch the pending set directly.
type ResubmissionFunc func(slot Slot, ready []SendEvent, sched Schedule) Schedule

// DefaultResubmissionFunc returns a resubmission function that transmits
// every ready event, then for each one consults policy to decide whether it
// is rescheduled for another send or converted into a confirmation probe.
//
// New events for the same target slot are batched into a single Prepend
// call per slot, in processing order, so that retrying several events in
// the same tick does not reorder them relative to each other.
func DefaultResubmissionFunc(transmit TransmitFunc, policy RetryPolicy) ResubmissionFunc {
	return func(slot Slot, ready []SendEvent, sched Schedule) Schedule {
		if len(ready) > 0 {
			transmit(ready)
		}

		type slotKey = int64
		order := make([]slotKey, 0)
		batches := make(map[slotKey]ScheduleEvents)

		for _, ev := range ready {
			count := ev.Count + 1
			next := policy(count, slot)
			key := next.Slot().AsKey()
			b, ok := batches[key]
			if !ok {
				order = append(order, key)
			}
			if next.IsCheckConfirmed() {
				b.Confirms = append(b.Confirms, ConfirmEvent{Id: ev.Id})
			} else {
				b.Sends = append(b.Sends, SendEvent{Id: ev.Id, Aux: ev.Aux, Count: count})
			}
			batches[key] = b
		}

		for _, key := range order {
			sched.Prepend(Slot(uint64(key)), batches[key])
		}

		return sched
	}
}
