package scheduler

// Slot is an opaque, monotonically advancing counter. Only successor,
// bounded addition, equality and ordering are meaningful, although as a
// named uint64 it still admits Go's other arithmetic operators. Wraparound
// is tolerated;
// AsKey projects a Slot to a signed integer suitable for use as a map key,
// preserving distinctness as long as the live scheduling window stays below
// half the counter's range.
type Slot uint64

// Next returns the successor slot.
func (s Slot) Next() Slot {
	return s + 1
}

// Add returns the slot delta steps ahead of s.
func (s Slot) Add(delta uint64) Slot {
	return s + Slot(delta)
}

// Before reports whether s occurs strictly before other.
func (s Slot) Before(other Slot) bool {
	return s < other
}

// AsKey projects the slot into a signed integer for use as a map key. This
// is a bit-preserving reinterpretation, not a truncation: wraparound of the
// unsigned counter maps to negative keys but never collides with a distinct
// slot within half the counter's range.
func (s Slot) AsKey() int64 {
	return int64(s)
}
