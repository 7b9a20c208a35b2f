package pipeline

import (
	"fmt"

	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/shape"
)

// ValidateData checks a data value against a node's declared shape. The
// value's dimensions are inferred with the shape engine and compared against
// the declaration, honoring unconstrained entries. Ragged values never match
// a declared shape. A node with a nil declared shape accepts anything.
func ValidateData(net *graph.Network, nodeName string, value any) error {
	node, ok := net.Node(nodeName)
	if !ok {
		return fmt.Errorf("%w: %q", graph.ErrUnknownNode, nodeName)
	}

	s, err := shape.Of(value)
	if err != nil {
		return err
	}
	if s.Ragged() {
		return fmt.Errorf("data for %q is ragged: %s", nodeName, s)
	}
	if !node.Shape.Matches(s.Dims) {
		return fmt.Errorf("data shape %s does not match %q declared shape %s", s, nodeName, node.Shape)
	}
	return nil
}

// shapeConflicts lists nodes whose display shape cannot lay out the declared
// shape: both are concrete and their element counts differ.
func shapeConflicts(net *graph.Network) []string {
	var conflicts []string
	for _, n := range net.Nodes() {
		if n.Shape == nil || n.Display == nil {
			continue
		}
		ss, ds := n.Shape.Size(), n.Display.Size()
		if ss >= 0 && ds >= 0 && ss != ds {
			conflicts = append(conflicts, n.Name)
		}
	}
	return conflicts
}
