package graph

import "fmt"

// TopoSort orders the requested subset of nodes from sources to sinks:
// for every connection u → v with both endpoints in the subset, u precedes v
// in the result. Only connections between subset members are considered;
// connections leaving the subset are ignored.
//
// The traversal is a depth-first postorder seeded from each unvisited subset
// node in the given order, so the result is deterministic for a given subset
// order. All traversal state is call-local, which keeps concurrent sorts
// over a read-only network safe.
//
// Returns ErrUnknownNode when a subset name is unregistered, or ErrCycle
// when the induced subgraph over the subset is cyclic.
func (net *Network) TopoSort(subset []string) ([]*Node, error) {
	const (
		white = iota
		gray
		black
	)

	members := make(map[string]bool, len(subset))
	for _, name := range subset {
		if _, ok := net.nodes[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
		}
		members[name] = true
	}

	color := make(map[string]int, len(members))
	stack := make([]*Node, 0, len(members))
	var cycle bool

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		for _, next := range net.nodes[name].Outgoing {
			if !members[next] {
				continue
			}
			switch color[next] {
			case white:
				visit(next)
				if cycle {
					return
				}
			case gray:
				cycle = true
				return
			}
		}
		color[name] = black
		stack = append(stack, net.nodes[name])
	}

	for _, name := range subset {
		if color[name] == white {
			visit(name)
			if cycle {
				return nil, ErrCycle
			}
		}
	}

	// Postorder accumulates sinks first; reverse for sources-to-sinks order.
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack, nil
}

// BuildOrder returns the model construction order: a topological sort of
// every node reachable from the network's input nodes. Networks without
// input-role nodes produce an empty order.
func (net *Network) BuildOrder() ([]*Node, error) {
	inputs := net.Inputs()
	names := make([]string, len(inputs))
	for i, n := range inputs {
		names[i] = n.Name
	}
	return net.TopoSort(net.Reachable(names...))
}
