package network

// buildSCCs runs Tarjan's strongly-connected-components algorithm over the
// neuron edge set, visiting roots in neuron insertion order and each
// neuron's outgoing edges in sorted order (buildEdges already sorted them)
// so that the resulting decomposition — and therefore every SCC index — is
// fully deterministic for a given neuron/dendrite declaration order.
//
// Tarjan's algorithm completes (pops) strongly connected components in
// reverse topological order: if component X has an edge into a different
// component Y, Y is always completed before X. Assigning each completed
// component the next integer in completion order therefore gives indices
// where an edge X -> Y (X != Y) always satisfies index(Y) < index(X) — the
// exact property buildReachability below relies on.
func (n *Network) buildSCCs() {
	n.sccIndex = make(map[string]int, len(n.order))

	indexCounter := 0
	index := make(map[string]int)   // DFS discovery index
	lowlink := make(map[string]int) // lowest reachable discovery index
	onStack := make(map[string]bool)
	var stack []string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = indexCounter
		lowlink[v] = indexCounter
		indexCounter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range n.edges[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var members []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				members = append(members, top)
				if top == v {
					break
				}
			}
			sccID := len(n.sccs)
			n.sccs = append(n.sccs, members)
			for _, m := range members {
				n.sccIndex[m] = sccID
			}
		}
	}

	for _, v := range n.order {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
}

// buildReachability computes, for every SCC index, the set of SCC indices
// reachable from it (including itself). SCC indices are processed in
// increasing order — which buildSCCs guarantees is reverse topological
// order — so that by the time index i is processed, every SCC it has an
// edge into (necessarily index <= i, and strictly less unless it is a
// self-loop within the same SCC) already has its final reachable set
// computed and can simply be unioned in.
func (n *Network) buildReachability() {
	n.reachable = make([]map[int]struct{}, len(n.sccs))

	// sccEdges[i] = set of distinct SCC indices i has an edge into (other
	// than i itself).
	sccEdges := make([]map[int]struct{}, len(n.sccs))
	for i := range sccEdges {
		sccEdges[i] = make(map[int]struct{})
	}
	for a, targets := range n.edges {
		ai := n.sccIndex[a]
		for _, b := range targets {
			bi := n.sccIndex[b]
			if bi != ai {
				sccEdges[ai][bi] = struct{}{}
			}
		}
	}

	for i := range n.sccs {
		reach := map[int]struct{}{i: {}}
		for j := range sccEdges[i] {
			for k := range n.reachable[j] {
				reach[k] = struct{}{}
			}
		}
		n.reachable[i] = reach
	}
}

// StronglyConnectedComponents returns the SCC membership lists, indexed by
// SCC id (the order Tarjan completed them in — reverse topological order).
func (n *Network) StronglyConnectedComponents() [][]string {
	out := make([][]string, len(n.sccs))
	for i, members := range n.sccs {
		cp := make([]string, len(members))
		copy(cp, members)
		out[i] = cp
	}
	return out
}

// SCCIndexOf returns the SCC id a neuron belongs to. ok is false if name is
// not a neuron in this network.
func (n *Network) SCCIndexOf(name string) (idx int, ok bool) {
	idx, ok = n.sccIndex[name]
	return
}

// SCCSetOf returns the neuron names sharing name's SCC (including name
// itself). Returns nil if name is unknown.
func (n *Network) SCCSetOf(name string) []string {
	idx, ok := n.sccIndex[name]
	if !ok {
		return nil
	}
	members := n.sccs[idx]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// SCCSize returns the number of neurons in the SCC with the given index.
func (n *Network) SCCSize(idx int) int {
	if idx < 0 || idx >= len(n.sccs) {
		return 0
	}
	return len(n.sccs[idx])
}

// ReachableSCCs returns the set of SCC indices reachable from the SCC at
// idx, reflexively (idx is always a member of its own result). This is the
// sccReachability table of spec.md §3, used by §4.6's guaranteed-idle
// check: a neuron's context can only be cleaned up once every SCC
// reachable from its own SCC is quiescent.
func (n *Network) ReachableSCCs(idx int) map[int]struct{} {
	if idx < 0 || idx >= len(n.reachable) {
		return nil
	}
	out := make(map[int]struct{}, len(n.reachable[idx]))
	for k := range n.reachable[idx] {
		out[k] = struct{}{}
	}
	return out
}

// CanNeuronBeGuaranteedDone answers the network-introspection question of
// spec.md §6: given a snapshot of active-task counts per SCC, can neuron
// name's work be guaranteed finished? It reports true only when every SCC
// reachable (reflexively) from name's own SCC has an active count of zero
// in activeBySCC. A name that is not a neuron in this network reports true.
//
// This is the pure, queue-agnostic half of the guaranteed-idle check; the
// stimulation scheduler additionally has to confirm the queue holds no
// pending task in any of those SCCs before it is safe to garbage-collect a
// context slot (see glia.Store and stimulation's cleanup check), since a
// zero active count alone doesn't rule out queued-but-not-yet-dequeued
// work. Callers that only have activeBySCC (e.g. an external inspector
// with no view of the live queue) get the weaker, conservative answer this
// method provides.
func (n *Network) CanNeuronBeGuaranteedDone(name string, activeBySCC map[int]int) bool {
	idx, ok := n.sccIndex[name]
	if !ok {
		return true
	}
	for r := range n.reachable[idx] {
		if activeBySCC[r] > 0 {
			return false
		}
	}
	return true
}
