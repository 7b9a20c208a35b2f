package graph

import "fmt"

// FindPath returns the nodes along a minimum-edge-count directed path from
// start to end, exclusive of start and inclusive of end. The boolean reports
// whether any directed path exists; an unreachable end is not an error.
// When start == end the path is empty and found is true.
//
// The search is breadth-first over outgoing connections with a predecessor
// map, stopping the first time end is dequeued, which guarantees a shortest
// path. A node reachable along several routes records only its first
// discoverer, so merge points do not yield alternative paths.
//
// Returns ErrUnknownNode when either name is unregistered.
func (net *Network) FindPath(start, end string) (path []*Node, found bool, err error) {
	if _, ok := net.nodes[start]; !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownNode, start)
	}
	if _, ok := net.nodes[end]; !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownNode, end)
	}

	predecessor := make(map[string]string, len(net.nodes))
	queue := []string{start}
	current := ""

	for len(queue) > 0 {
		current = queue[0]
		queue = queue[1:]
		if current == end {
			found = true
			break
		}
		for _, next := range net.nodes[current].Outgoing {
			if _, seen := predecessor[next]; !seen && next != start {
				predecessor[next] = current
				queue = append(queue, next)
			}
		}
	}
	if !found {
		return nil, false, nil
	}

	// Walk predecessors back to start, then reverse.
	for current != start {
		path = append(path, net.nodes[current])
		current = predecessor[current]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true, nil
}
