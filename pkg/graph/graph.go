package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNodeName is returned by [Network.AddNode] when the node name
	// is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNodeName is returned by [Network.AddNode] when a node with
	// the same name already exists. Node names must be unique per network.
	ErrDuplicateNodeName = errors.New("duplicate node name")

	// ErrInvalidShape is returned by [Network.AddNode] when a declared shape
	// is neither nil, nor a non-empty list of positive-or-unconstrained
	// dimensions. It is also returned for display shapes that are not one- or
	// two-dimensional.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrUnknownNode is returned by [Network.Connect], [Network.TopoSort] and
	// [Network.FindPath] when a referenced node is not registered.
	ErrUnknownNode = errors.New("unknown node")

	// ErrCycle is returned by [Network.TopoSort] when the induced subgraph
	// over the requested subset contains a directed cycle, and by
	// [Network.Validate] when the network as a whole does. A cyclic subset
	// has no topological order, so the sort fails fast instead of producing
	// an arbitrary sequence.
	ErrCycle = errors.New("graph contains a cycle")
)

// DimAny marks a dimension whose extent is unconstrained, such as a variable
// batch dimension. It is valid anywhere a positive extent is.
const DimAny = -1

// Shape is a declared dimension tuple. A nil Shape leaves the node fully
// unconstrained. Non-nil shapes must be non-empty, and every entry must be a
// positive extent or [DimAny].
type Shape []int

// Valid reports whether the shape is acceptable as a declared node shape.
func (s Shape) Valid() bool {
	if s == nil {
		return true
	}
	if len(s) == 0 {
		return false
	}
	for _, d := range s {
		if d != DimAny && d < 1 {
			return false
		}
	}
	return true
}

// ValidDisplay reports whether the shape is acceptable as a display shape.
// Display shapes lay a node's output out as an image, so only one- and
// two-dimensional shapes qualify.
func (s Shape) ValidDisplay() bool {
	return s.Valid() && (s == nil || len(s) <= 2)
}

// Matches reports whether a concrete dimension tuple satisfies the declared
// shape. A nil shape matches anything; [DimAny] entries match any extent.
func (s Shape) Matches(dims []int) bool {
	if s == nil {
		return true
	}
	if len(s) != len(dims) {
		return false
	}
	for i, d := range s {
		if d != DimAny && d != dims[i] {
			return false
		}
	}
	return true
}

// Size returns the number of elements the shape describes, or -1 when the
// shape is nil or contains an unconstrained dimension.
func (s Shape) Size() int {
	if s == nil {
		return -1
	}
	size := 1
	for _, d := range s {
		if d == DimAny {
			return -1
		}
		size *= d
	}
	return size
}

// String formats the shape as a tuple, e.g. "(2, 3)" or "(?, 28, 28)".
// A nil shape renders as "?".
func (s Shape) String() string {
	if s == nil {
		return "?"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		if d == DimAny {
			parts[i] = "?"
		} else {
			parts[i] = strconv.Itoa(d)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Role classifies a node by its connection counts. It is never stored;
// [Node.Role] derives it on demand.
type Role int

const (
	// RoleUnconnected marks a node with no connections at all.
	RoleUnconnected Role = iota
	// RoleInput marks a node with outgoing connections only.
	RoleInput
	// RoleHidden marks a node with both incoming and outgoing connections.
	RoleHidden
	// RoleOutput marks a node with incoming connections only.
	RoleOutput
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleHidden:
		return "hidden"
	case RoleOutput:
		return "output"
	default:
		return "unconnected"
	}
}

// Node is a computational unit in a [Network]. Connections are stored as
// ordered name lists on both endpoints; the network resolves names back to
// nodes. The Outgoing and Incoming slices are maintained by
// [Network.Connect] and should be treated as read-only views.
//
// The zero value is not usable on its own - nodes are registered through
// [Network.AddNode], which validates the name and shapes.
type Node struct {
	Name    string // Unique identifier (also used as display label)
	Shape   Shape  // Declared shape, nil = unconstrained
	Display Shape  // Optional display shape for image layout (1D or 2D)

	Outgoing []string // Names of nodes this node connects to, in connect order
	Incoming []string // Names of nodes connecting to this node, in connect order
}

// Role derives the node's classification from its connection counts:
// no connections ⇒ unconnected, outgoing only ⇒ input, incoming only ⇒
// output, both ⇒ hidden.
func (n *Node) Role() Role {
	switch {
	case len(n.Incoming) == 0 && len(n.Outgoing) == 0:
		return RoleUnconnected
	case len(n.Incoming) > 0 && len(n.Outgoing) > 0:
		return RoleHidden
	case len(n.Incoming) > 0:
		return RoleOutput
	default:
		return RoleInput
	}
}

// Summary returns a one-line description of the node: name, role, shapes and
// connection counts. Used by the interactive node browser's detail pane.
func (n *Node) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) shape=%s", n.Name, n.Role(), n.Shape)
	if n.Display != nil {
		fmt.Fprintf(&b, " display=%s", n.Display)
	}
	fmt.Fprintf(&b, " in=%d out=%d", len(n.Incoming), len(n.Outgoing))
	return b.String()
}

// Network owns named nodes and the directed connections between them.
// Nodes are created on registration and never destroyed during a session;
// connections only ever accumulate.
//
// The zero value is not usable - use [New]. Network is not safe for
// concurrent use without external synchronization, but traversal queries
// keep their state call-local, so read-only queries over the same network
// may run from independent goroutines once mutation has stopped.
type Network struct {
	name  string
	nodes map[string]*Node
	order []string // insertion order, for deterministic iteration
}

// New creates an empty network with the given display name.
func New(name string) *Network {
	return &Network{
		name:  name,
		nodes: make(map[string]*Node),
	}
}

// Name returns the network's display name.
func (net *Network) Name() string { return net.name }

// AddNode registers a node. Returns ErrInvalidNodeName for an empty name,
// ErrDuplicateNodeName when the name is taken, or ErrInvalidShape when the
// declared or display shape is malformed. On failure no state changes.
//
// The node is stored by value copy; connection lists start empty regardless
// of what the caller passed in.
func (net *Network) AddNode(n Node) error {
	if n.Name == "" {
		return ErrInvalidNodeName
	}
	if _, exists := net.nodes[n.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeName, n.Name)
	}
	if !n.Shape.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidShape, []int(n.Shape))
	}
	if !n.Display.ValidDisplay() {
		return fmt.Errorf("%w: display shape must be 1D or 2D: %v", ErrInvalidShape, []int(n.Display))
	}
	n.Outgoing = nil
	n.Incoming = nil
	node := &n
	net.nodes[node.Name] = node
	net.order = append(net.order, node.Name)
	return nil
}

// Connect adds a directed connection between two registered nodes.
// Returns ErrUnknownNode when either endpoint is unregistered; on failure no
// state changes. Self-loops are permitted at this layer, but they make
// topological sorting over a subset containing the node fail with ErrCycle.
func (net *Network) Connect(from, to string) error {
	src, ok := net.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	dst, ok := net.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	src.Outgoing = append(src.Outgoing, to)
	dst.Incoming = append(dst.Incoming, from)
	return nil
}

// Node returns the node with the given name and true, or nil and false.
// The returned pointer refers to the actual node, so shape edits are visible
// to the network; connection lists must only change through Connect.
func (net *Network) Node(name string) (*Node, bool) {
	n, ok := net.nodes[name]
	return n, ok
}

// Nodes returns all nodes in registration order.
func (net *Network) Nodes() []*Node {
	nodes := make([]*Node, len(net.order))
	for i, name := range net.order {
		nodes[i] = net.nodes[name]
	}
	return nodes
}

// NodeNames returns all node names in registration order.
func (net *Network) NodeNames() []string {
	names := make([]string, len(net.order))
	copy(names, net.order)
	return names
}

// NodeCount returns the number of registered nodes.
func (net *Network) NodeCount() int { return len(net.nodes) }

// ConnectionCount returns the total number of directed connections.
func (net *Network) ConnectionCount() int {
	total := 0
	for _, n := range net.nodes {
		total += len(n.Outgoing)
	}
	return total
}

// Inputs returns the nodes with outgoing connections only, in registration
// order. These seed the build order for model construction.
func (net *Network) Inputs() []*Node { return net.withRole(RoleInput) }

// Outputs returns the nodes with incoming connections only, in registration order.
func (net *Network) Outputs() []*Node { return net.withRole(RoleOutput) }

func (net *Network) withRole(role Role) []*Node {
	var nodes []*Node
	for _, name := range net.order {
		if n := net.nodes[name]; n.Role() == role {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Reachable returns the names of all nodes reachable from the given start
// nodes by following outgoing connections, including the start nodes
// themselves. The result is in breadth-first discovery order, which is
// deterministic given the start order. Unknown start names are skipped.
func (net *Network) Reachable(start ...string) []string {
	seen := make(map[string]bool, len(net.nodes))
	var queue, result []string
	for _, name := range start {
		if _, ok := net.nodes[name]; ok && !seen[name] {
			seen[name] = true
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)
		for _, next := range net.nodes[name].Outgoing {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return result
}

// Validate checks that the connection graph is acyclic and returns ErrCycle
// otherwise. Cycle detection runs in O(nodes+connections) using depth-first
// search with white/gray/black coloring.
func (net *Network) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(net.nodes))
	var hasCycle bool

	var dfs func(name string)
	dfs = func(name string) {
		color[name] = gray
		for _, next := range net.nodes[name].Outgoing {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				hasCycle = true
				return
			}
		}
		color[name] = black
	}

	for _, name := range net.order {
		if color[name] == white {
			dfs(name)
			if hasCycle {
				return ErrCycle
			}
		}
	}
	return nil
}

// Autoname returns a conventional layer name for position index in a chain
// of count layers: the first is "input", the last is "output", and interior
// layers are "hidden" (three-layer chains) or "hidden1", "hidden2", ...
func Autoname(index, count int) string {
	switch {
	case index == 0:
		return "input"
	case index == count-1:
		return "output"
	case count == 3:
		return "hidden"
	default:
		return fmt.Sprintf("hidden%d", index)
	}
}
