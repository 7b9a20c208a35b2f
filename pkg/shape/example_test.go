package shape_test

import (
	"fmt"

	"github.com/netform/netform/pkg/shape"
)

func ExampleOf() {
	s, _ := shape.Of([][]int{{1, 2, 3}, {4, 5, 6}})
	fmt.Println(s)

	s, _ = shape.Of(5)
	fmt.Println(s)

	s, _ = shape.Of([]any{})
	fmt.Println(s)
	// Output:
	// (2, 3)
	// ()
	// (0)
}

func ExampleOf_ragged() {
	s, _ := shape.Of([][]int{{1}, {2, 3}})
	fmt.Println("ragged:", s.Ragged())
	fmt.Println(s)
	// Output:
	// ragged: true
	// [(1), (2)]
}

func ExampleFormOf() {
	f, _ := shape.FormOf([][]int{{1, 2, 3}, {4, 5, 6}})
	fmt.Println(f)

	f, _ = shape.FormOf([]any{1, []int{2, 5, 6}, 3})
	fmt.Println(f)
	// Output:
	// [[number, 3], 2]
	// [number, [number, 3], number]
}

func ExampleFormatCollapse() {
	declared := shape.FormatCollapse(shape.ElemNumber, []int{2, 3})
	inferred, _ := shape.FormOf([][]float64{{1, 2, 3}, {4, 5, 6}})
	fmt.Println(declared)
	fmt.Println("matches data:", declared.Equal(inferred))
	// Output:
	// [[number, 3], 2]
	// matches data: true
}
