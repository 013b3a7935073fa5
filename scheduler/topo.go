package scheduler

import "sort"

// topoSort orders candidates so that every event appears after the events
// producing the outpoints it consumes, restricted to dependencies between
// candidates themselves. It reports an error iff the
// candidate set's dependency relation contains a cycle, using Kahn's
// algorithm for both the sort and the cycle check. Ties are broken by TxId
// so the result is deterministic.
func topoSort(candidates []SendEvent) ([]SendEvent, error) {
	// An id can be scheduled more than once for the same tick; every one of
	// its events is kept and emitted together at the id's position.
	byId := make(map[TxId][]SendEvent, len(candidates))
	for _, c := range candidates {
		byId[c.Id] = append(byId[c.Id], c)
	}

	// forward[a] = [b, c] means b and c each consume an outpoint produced by a.
	forward := make(map[TxId][]TxId, len(candidates))
	inDegree := make(map[TxId]int, len(candidates))
	for _, c := range candidates {
		inDegree[c.Id] = 0
	}
	for _, c := range candidates {
		seen := make(map[TxId]bool)
		for _, dep := range c.Aux.dependencies() {
			if dep == c.Id {
				return nil, &ErrLoopDetected{Ids: []TxId{c.Id}}
			}
			if _, isCandidate := byId[dep]; !isCandidate || seen[dep] {
				continue
			}
			seen[dep] = true
			forward[dep] = append(forward[dep], c.Id)
			inDegree[c.Id]++
		}
	}

	var queue []TxId
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i].Less(queue[j]) })

	order := make([]SendEvent, 0, len(candidates))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, byId[id]...)

		successors := append([]TxId{}, forward[id]...)
		sort.Slice(successors, func(i, j int) bool { return successors[i].Less(successors[j]) })
		for _, succ := range successors {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
				sort.Slice(queue, func(i, j int) bool { return queue[i].Less(queue[j]) })
			}
		}
	}

	if len(order) != len(candidates) {
		var cyclic []TxId
		for id, deg := range inDegree {
			if deg > 0 {
				cyclic = append(cyclic, id)
			}
		}
		sort.Slice(cyclic, func(i, j int) bool { return cyclic[i].Less(cyclic[j]) })
		return nil, &ErrLoopDetected{Ids: cyclic}
	}

	return order, nil
}
