// Package manifest reads and writes TOML network definitions.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	nferrors "github.com/netform/netform/pkg/errors"
	"github.com/netform/netform/pkg/graph"
)

// ErrEmptyManifest is returned when a manifest defines no nodes and no
// layer shorthand.
var ErrEmptyManifest = errors.New("manifest defines no nodes")

// ErrLayersAndNodes is returned when a manifest mixes the layers shorthand
// with explicit node tables.
var ErrLayersAndNodes = errors.New("manifest mixes layers shorthand with explicit nodes")

// File is the on-disk TOML structure of a network manifest.
//
// A manifest either lists nodes and connections explicitly:
//
//	[network]
//	name = "xor"
//
//	[[node]]
//	name = "input"
//	shape = [2]
//
//	[[node]]
//	name = "hidden"
//	shape = [4]
//
//	[[connection]]
//	from = "input"
//	to = "hidden"
//
// or uses the layers shorthand, a flat size list that expands into a chain
// of generated layer names:
//
//	[network]
//	name = "xor"
//	layers = [2, 4, 1]
//
// A shape dimension of -1 means the dimension is unconstrained.
type File struct {
	Network     NetworkSection `toml:"network"`
	Nodes       []NodeTable    `toml:"node"`
	Connections []ConnTable    `toml:"connection"`
}

// NetworkSection is the [network] header table.
type NetworkSection struct {
	Name   string `toml:"name"`
	Layers []int  `toml:"layers,omitempty"`
}

// NodeTable is one [[node]] entry.
type NodeTable struct {
	Name    string `toml:"name"`
	Shape   []int  `toml:"shape,omitempty"`
	Display []int  `toml:"display,omitempty"`
}

// ConnTable is one [[connection]] entry.
type ConnTable struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Load reads and parses a manifest file into a network.
func Load(path string) (*graph.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a network from manifest bytes. Node order and connection
// order in the file are preserved in the network.
func Parse(data []byte) (*graph.Network, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return Build(f)
}

// Build constructs a network from a decoded manifest. The layers shorthand
// and explicit node tables are mutually exclusive.
func Build(f File) (*graph.Network, error) {
	if len(f.Network.Layers) > 0 && len(f.Nodes) > 0 {
		return nil, ErrLayersAndNodes
	}
	if len(f.Network.Layers) > 0 {
		return buildLayers(f.Network)
	}
	if len(f.Nodes) == 0 {
		return nil, ErrEmptyManifest
	}
	if err := nferrors.ValidateNetworkName(f.Network.Name); err != nil {
		return nil, err
	}

	net := graph.New(f.Network.Name)
	for _, n := range f.Nodes {
		if err := nferrors.ValidateNodeName(n.Name); err != nil {
			return nil, err
		}
		node := graph.Node{
			Name:    n.Name,
			Shape:   graph.Shape(n.Shape),
			Display: graph.Shape(n.Display),
		}
		if err := net.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for _, c := range f.Connections {
		if err := net.Connect(c.From, c.To); err != nil {
			return nil, fmt.Errorf("connection %q -> %q: %w", c.From, c.To, err)
		}
	}
	return net, nil
}

// buildLayers expands the size-list shorthand into a linear chain. Each
// size becomes a one-dimensional layer with a generated name.
func buildLayers(section NetworkSection) (*graph.Network, error) {
	if err := nferrors.ValidateNetworkName(section.Name); err != nil {
		return nil, err
	}
	net := graph.New(section.Name)
	count := len(section.Layers)
	names := make([]string, count)
	for i, size := range section.Layers {
		names[i] = graph.Autoname(i, count)
		node := graph.Node{Name: names[i], Shape: graph.Shape{size}}
		if err := net.AddNode(node); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	for i := 1; i < count; i++ {
		if err := net.Connect(names[i-1], names[i]); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Encode renders a network back into manifest TOML, always in the explicit
// node/connection form.
func Encode(net *graph.Network) ([]byte, error) {
	f := File{Network: NetworkSection{Name: net.Name()}}
	for _, node := range net.Nodes() {
		f.Nodes = append(f.Nodes, NodeTable{
			Name:    node.Name,
			Shape:   []int(node.Shape),
			Display: []int(node.Display),
		})
	}
	for _, node := range net.Nodes() {
		for _, to := range node.Outgoing {
			f.Connections = append(f.Connections, ConnTable{From: node.Name, To: to})
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes a network to a manifest file.
func Save(net *graph.Network, path string) error {
	data, err := Encode(net)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
