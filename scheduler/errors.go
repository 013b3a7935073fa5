package scheduler

import "fmt"

// ErrLoopDetected reports that this tick's candidate events form a
// dependency cycle through the pending set's outpoint references. It is the
// only error kind the core produces; a tick that reports it through its
// onError callback has made no state mutation whatsoever.
type ErrLoopDetected struct {
	// Ids holds the transaction ids implicated in the cycle.
	Ids []TxId
}

func (e *ErrLoopDetected) Error() string {
	return fmt.Sprintf("scheduler: dependency loop detected among %d pending transaction(s)", len(e.Ids))
}

// isLoopDetected reports whether err is an *ErrLoopDetected.
func isLoopDetected(err error) (*ErrLoopDetected, bool) {
	e, ok := err.(*ErrLoopDetected)
	return e, ok
}
