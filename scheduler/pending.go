package scheduler

import "sort"

// Pending is a mapping of TxId to TxAux for transactions known locally as
// unconfirmed. Every id ever unioned in is present until explicitly removed
// or evicted.
type Pending struct {
	txs map[TxId]TxAux
}

// NewPending returns an empty pending set.
func NewPending() Pending {
	return Pending{txs: make(map[TxId]TxAux)}
}

// Contains reports whether id is present.
func (p Pending) Contains(id TxId) bool {
	_, ok := p.txs[id]
	return ok
}

// Get returns the TxAux for id, if present.
func (p Pending) Get(id TxId) (TxAux, bool) {
	tx, ok := p.txs[id]
	return tx, ok
}

// Len returns the number of pending transactions.
func (p Pending) Len() int {
	return len(p.txs)
}

// Union merges other into p, left-biased: existing entries win on
// collision. Mutates p in place and returns it for chaining.
func (p Pending) Union(other map[TxId]TxAux) Pending {
	for id, tx := range other {
		if _, exists := p.txs[id]; !exists {
			p.txs[id] = tx
		}
	}
	return p
}

// Difference removes the listed ids from p. Missing ids are silently
// ignored. Mutates p in place and returns it for chaining.
func (p Pending) Difference(ids []TxId) Pending {
	for _, id := range ids {
		delete(p.txs, id)
	}
	return p
}

// Iter returns the pending transactions in ascending TxId order, for
// deterministic iteration by tests and by the initial scheduling of a
// batch.
func (p Pending) Iter() []TxId {
	ids := make([]TxId, 0, len(p.txs))
	for id := range p.txs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// clone returns a deep copy, used by Scheduler.Snapshot.
func (p Pending) clone() Pending {
	cp := make(map[TxId]TxAux, len(p.txs))
	for id, tx := range p.txs {
		cp[id] = tx
	}
	return Pending{txs: cp}
}
