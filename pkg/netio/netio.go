// Package netio serializes networks to and from JSON.
package netio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/netform/netform/pkg/graph"
)

// Document is the canonical JSON serialization of a network. Used for API
// responses, caching, and cross-tool exchange.
//
// The format is designed for round-trip fidelity: export → re-import
// produces a network with the same nodes, shapes, and connections in the
// same order.
type Document struct {
	Name        string       `json:"name,omitempty"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Node is the serialized form of one network node. Role is derived state
// and is included on export for consumers, but ignored on import.
type Node struct {
	Name    string `json:"name"`
	Shape   []int  `json:"shape,omitempty"`
	Display []int  `json:"display,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Connection is a directed connection between two named nodes.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromNetwork converts a network to its serialization format. Nodes keep
// their registration order; connections are listed grouped by source node.
func FromNetwork(net *graph.Network) Document {
	doc := Document{Name: net.Name()}
	for _, n := range net.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			Name:    n.Name,
			Shape:   []int(n.Shape),
			Display: []int(n.Display),
			Role:    n.Role().String(),
		})
	}
	for _, n := range net.Nodes() {
		for _, to := range n.Outgoing {
			doc.Connections = append(doc.Connections, Connection{From: n.Name, To: to})
		}
	}
	return doc
}

// ToNetwork converts a document back into a network, validating names,
// shapes, and connection endpoints as it goes.
func ToNetwork(doc Document) (*graph.Network, error) {
	net := graph.New(doc.Name)
	for _, n := range doc.Nodes {
		node := graph.Node{
			Name:    n.Name,
			Shape:   graph.Shape(n.Shape),
			Display: graph.Shape(n.Display),
		}
		if err := net.AddNode(node); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.Name, err)
		}
	}
	for _, c := range doc.Connections {
		if err := net.Connect(c.From, c.To); err != nil {
			return nil, fmt.Errorf("connect %q -> %q: %w", c.From, c.To, err)
		}
	}
	return net, nil
}

// WriteJSON encodes a network as indented JSON and writes it to w.
func WriteJSON(net *graph.Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromNetwork(net)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a network from JSON read from r.
func ReadJSON(r io.Reader) (*graph.Network, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToNetwork(doc)
}

// Export writes a network to a JSON file at path.
func Export(net *graph.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(net, f)
}

// Import reads a network from a JSON file at path.
func Import(path string) (*graph.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
