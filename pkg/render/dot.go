// Package render draws networks as Graphviz node-link diagrams.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/netform/netform/pkg/graph"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes shape and role information in node labels.
	// When false, only the node name is shown.
	Detailed bool
	// Horizontal lays the diagram out left-to-right instead of
	// top-to-bottom.
	Horizontal bool
}

// Role fill colors, keyed by derived role. Unconnected nodes stay white so
// stray layers stand out.
var roleFill = map[graph.Role]string{
	graph.RoleInput:  "palegreen",
	graph.RoleHidden: "lightblue",
	graph.RoleOutput: "lightsalmon",
}

// ToDOT converts a network to Graphviz DOT format. Nodes are colored by
// role and labeled with their declared shape. The resulting DOT string can
// be rendered with [SVG].
func ToDOT(net *graph.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range net.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range net.Nodes() {
		for _, to := range n.Outgoing {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Name, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, "role: " + n.Role().String()}
	if n.Shape != nil {
		parts = append(parts, "shape: "+n.Shape.String())
	}
	if n.Display != nil {
		parts = append(parts, "display: "+n.Display.String())
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := roleFill[n.Role()]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", fill))
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
