// Package graph provides the directed node/connection graph that models a
// network's computational units.
//
// # Overview
//
// Netform describes neural networks as named nodes joined by directed
// connections. This package owns the node registry and answers the
// structural questions model construction needs: what role each node plays,
// in which order nodes must be built, and how activation flows between two
// nodes.
//
// # Basic Usage
//
// Create a network with [New], register nodes with [Network.AddNode], and
// connect them with [Network.Connect]. Node names must be unique and
// non-empty; declared shapes are validated on registration:
//
//	net := graph.New("xor")
//	net.AddNode(graph.Node{Name: "input", Shape: graph.Shape{2}})
//	net.AddNode(graph.Node{Name: "hidden", Shape: graph.Shape{4}})
//	net.AddNode(graph.Node{Name: "output", Shape: graph.Shape{1}})
//	net.Connect("input", "hidden")
//	net.Connect("hidden", "output")
//
// # Roles
//
// A node's role is never stored; [Node.Role] derives it from connection
// counts on demand: no connections is unconnected, outgoing-only is input,
// incoming-only is output, and both is hidden.
//
// # Ordering and Paths
//
// [Network.TopoSort] orders an explicit subset of nodes from sources to
// sinks using a depth-first postorder; [Network.BuildOrder] applies it to
// everything reachable from the input nodes. [Network.FindPath] answers
// minimum-edge-count reachability queries with breadth-first search.
//
// Both traversals keep their visited state call-local rather than marking
// nodes, so queries never leak state between calls. Neither tolerates
// cycles inside the queried subset: TopoSort fails fast with [ErrCycle],
// and [Network.Validate] checks the whole network ahead of time.
//
// # Concurrency
//
// Network instances are not safe for concurrent mutation. Read-only queries
// over a network that is no longer being mutated can safely run in parallel
// across goroutines.
package graph
