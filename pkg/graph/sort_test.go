package graph

import (
	"errors"
	"testing"
)

// chain builds a network with the given connections over the named nodes.
func chain(t *testing.T, nodes []string, edges [][2]string) *Network {
	t.Helper()
	net := New("test")
	for _, name := range nodes {
		if err := net.AddNode(Node{Name: name}); err != nil {
			t.Fatalf("AddNode(%s) = %v", name, err)
		}
	}
	for _, e := range edges {
		if err := net.Connect(e[0], e[1]); err != nil {
			t.Fatalf("Connect(%s, %s) = %v", e[0], e[1], err)
		}
	}
	return net
}

// assertBefore fails unless u precedes v in order.
func assertBefore(t *testing.T, order []*Node, u, v string) {
	t.Helper()
	iu, iv := -1, -1
	for i, n := range order {
		switch n.Name {
		case u:
			iu = i
		case v:
			iv = i
		}
	}
	if iu < 0 || iv < 0 {
		t.Fatalf("order %v missing %s or %s", names(order), u, v)
	}
	if iu >= iv {
		t.Errorf("order %v: %s should precede %s", names(order), u, v)
	}
}

func TestTopoSort_Chain(t *testing.T) {
	net := chain(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	order, err := net.TopoSort([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("TopoSort() = %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3", len(order))
	}
	assertBefore(t, order, "a", "b")
	assertBefore(t, order, "b", "c")
}

func TestTopoSort_Diamond(t *testing.T) {
	net := chain(t, []string{"in", "l", "r", "out"},
		[][2]string{{"in", "l"}, {"in", "r"}, {"l", "out"}, {"r", "out"}})

	order, err := net.TopoSort(net.NodeNames())
	if err != nil {
		t.Fatalf("TopoSort() = %v", err)
	}
	assertBefore(t, order, "in", "l")
	assertBefore(t, order, "in", "r")
	assertBefore(t, order, "l", "out")
	assertBefore(t, order, "r", "out")
}

func TestTopoSort_SubsetOnly(t *testing.T) {
	// c is outside the subset; the a→c→b route must not constrain the order,
	// and c must not appear in the result.
	net := chain(t, []string{"a", "b", "c"}, [][2]string{{"a", "c"}, {"c", "b"}, {"a", "b"}})

	order, err := net.TopoSort([]string{"b", "a"})
	if err != nil {
		t.Fatalf("TopoSort() = %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("len(order) = %d, want 2", len(order))
	}
	assertBefore(t, order, "a", "b")
}

func TestTopoSort_EachNodeOnce(t *testing.T) {
	net := chain(t, []string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})

	order, err := net.TopoSort(net.NodeNames())
	if err != nil {
		t.Fatalf("TopoSort() = %v", err)
	}
	seen := map[string]int{}
	for _, n := range order {
		seen[n.Name]++
	}
	for name, count := range seen {
		if count != 1 {
			t.Errorf("node %s appears %d times, want 1", name, count)
		}
	}
	if len(order) != 4 {
		t.Errorf("len(order) = %d, want 4", len(order))
	}
}

func TestTopoSort_Deterministic(t *testing.T) {
	net := chain(t, []string{"x", "y", "z"}, nil)

	first, err := net.TopoSort([]string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("TopoSort() = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := net.TopoSort([]string{"x", "y", "z"})
		if err != nil {
			t.Fatalf("TopoSort() = %v", err)
		}
		for j := range first {
			if first[j].Name != again[j].Name {
				t.Fatalf("run %d: order %v differs from first %v", i, names(again), names(first))
			}
		}
	}
}

func TestTopoSort_RepeatedCallsIndependent(t *testing.T) {
	// Traversal state must not leak between invocations.
	net := chain(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	for i := 0; i < 3; i++ {
		order, err := net.TopoSort([]string{"a", "b"})
		if err != nil {
			t.Fatalf("TopoSort() = %v", err)
		}
		if len(order) != 2 {
			t.Fatalf("run %d: len(order) = %d, want 2", i, len(order))
		}
	}
}

func TestTopoSort_UnknownNode(t *testing.T) {
	net := chain(t, []string{"a"}, nil)
	if _, err := net.TopoSort([]string{"a", "ghost"}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("TopoSort() = %v, want ErrUnknownNode", err)
	}
}

func TestTopoSort_CycleInSubset(t *testing.T) {
	net := chain(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	if _, err := net.TopoSort([]string{"a", "b"}); !errors.Is(err, ErrCycle) {
		t.Errorf("TopoSort() = %v, want ErrCycle", err)
	}
}

func TestTopoSort_CycleOutsideSubset(t *testing.T) {
	// The b↔c cycle is outside the subset, so sorting {a} succeeds.
	net := chain(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}})

	order, err := net.TopoSort([]string{"a"})
	if err != nil {
		t.Fatalf("TopoSort() = %v, want nil", err)
	}
	if len(order) != 1 || order[0].Name != "a" {
		t.Errorf("order = %v, want [a]", names(order))
	}
}

func TestTopoSort_SelfLoop(t *testing.T) {
	net := chain(t, []string{"a"}, [][2]string{{"a", "a"}})
	if _, err := net.TopoSort([]string{"a"}); !errors.Is(err, ErrCycle) {
		t.Errorf("TopoSort() = %v, want ErrCycle", err)
	}
}

func TestTopoSort_Empty(t *testing.T) {
	net := New("test")
	order, err := net.TopoSort(nil)
	if err != nil {
		t.Fatalf("TopoSort(nil) = %v", err)
	}
	if len(order) != 0 {
		t.Errorf("len(order) = %d, want 0", len(order))
	}
}

func TestBuildOrder_FromInputs(t *testing.T) {
	net := chain(t, []string{"island", "in", "hid", "out"},
		[][2]string{{"in", "hid"}, {"hid", "out"}})

	order, err := net.BuildOrder()
	if err != nil {
		t.Fatalf("BuildOrder() = %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3 (island excluded)", len(order))
	}
	assertBefore(t, order, "in", "hid")
	assertBefore(t, order, "hid", "out")
}
