package scheduler

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// TxId is a content hash identifying a transaction. It is equatable,
// hashable (usable directly as a map key) and totally ordered so that tests
// can assert on deterministic iteration order.
type TxId [32]byte

// String returns the hex encoding of the id.
func (id TxId) String() string {
	return hex.EncodeToString(id[:])
}

// Less reports whether id sorts before other under the total order used by
// Pending.Iter and by the topological sort's tie-breaking.
func (id TxId) Less(other TxId) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// MarshalText implements encoding.TextMarshaler so TxId can be used directly
// in structured log fields and JSON payloads.
func (id TxId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TxId) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("scheduler: malformed TxId: %w", err)
	}
	if len(b) != len(id) {
		return fmt.Errorf("scheduler: malformed TxId: expected %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return nil
}

// TxIdFromBytes hashes-in-place is not performed here; callers that derive
// ids from content should hash before constructing a TxId. This helper only
// exists to make truncating/copying arbitrary byte slices into a TxId
// explicit at call sites (e.g. in tests).
func TxIdFromBytes(b []byte) TxId {
	var id TxId
	copy(id[:], b)
	return id
}

// Outpoint references an input consumed by a transaction. A producing
// transaction id of the zero value combined with Unknown()==true marks an
// input that does not reference any locally-known transaction; such inputs
// are ignored for dependency analysis.
type Outpoint struct {
	// Producer is the TxId of the transaction whose output this outpoint
	// consumes. Meaningless when unknown is true.
	Producer TxId
	// Index is the output index within Producer.
	Index uint32
	// unknown marks an outpoint that does not reference a locally-known
	// producing transaction (e.g. a UTXO already confirmed on-chain).
	unknown bool
}

// UnknownOutpoint constructs an Outpoint that is ignored for dependency
// analysis.
func UnknownOutpoint() Outpoint {
	return Outpoint{unknown: true}
}

// NewOutpoint constructs an Outpoint referencing a locally-pending producer.
func NewOutpoint(producer TxId, index uint32) Outpoint {
	return Outpoint{Producer: producer, Index: index}
}

// Unknown reports whether this outpoint should be ignored for dependency
// analysis.
func (o Outpoint) Unknown() bool {
	return o.unknown
}

// TxAux is the opaque transaction payload the scheduler carries around. It
// never inspects Payload; it only inspects Inputs to derive the dependency
// graph used for topological gating.
type TxAux struct {
	// Payload is the opaque, transmittable transaction blob.
	Payload []byte
	// Inputs are the outpoints this transaction consumes.
	Inputs []Outpoint
}

// dependencies returns the set of locally-known TxIds this transaction's
// inputs reference, ignoring unknown outpoints.
func (t TxAux) dependencies() []TxId {
	deps := make([]TxId, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if in.Unknown() {
			continue
		}
		deps = append(deps, in.Producer)
	}
	return deps
}
