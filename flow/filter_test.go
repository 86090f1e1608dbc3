package flow_test

import (
	"sort"
	"testing"

	ext "github.com/systour/systour/extension"
	"github.com/systour/systour/flow"
	"github.com/systour/systour/internal/assert"
)

func TestFilter(t *testing.T) {
	in := make(chan any, 5)
	out := make(chan any, 5)

	ingestSlice([]int{1, 2, 3, 4, 5}, in)
	close(in)

	ext.NewChanSource(in).
		Via(flow.NewFilter(func(e int) bool { return e%2 != 0 }, 1)).
		To(ext.NewChanSink(out))

	assert.Equal(t, []int{1, 3, 5}, readSlice[int](out))
}

func TestFilter_Parallel(t *testing.T) {
	in := make(chan any, 100)
	out := make(chan any, 100)

	var input []int
	for i := 0; i < 100; i++ {
		input = append(input, i)
	}
	ingestSlice(input, in)
	close(in)

	ext.NewChanSource(in).
		Via(flow.NewFilter(func(e int) bool { return e >= 90 }, 4)).
		To(ext.NewChanSink(out))

	result := readSlice[int](out)
	sort.Ints(result)
	assert.Equal(t, []int{90, 91, 92, 93, 94, 95, 96, 97, 98, 99}, result)
}

func TestFilter_NonPositiveParallelism(t *testing.T) {
	assert.Panics(t, func() {
		flow.NewFilter(func(int) bool { return true }, 0)
	})
}

func TestFilter_DropsOtherTypes(t *testing.T) {
	in := make(chan any, 4)
	out := make(chan any, 4)

	ingestSlice([]any{"keep", 42, "drop", []byte("x")}, in)
	close(in)

	ext.NewChanSource(in).
		Via(flow.NewFilter(func(s string) bool { return s == "keep" }, 1)).
		To(ext.NewChanSink(out))

	assert.Equal(t, []string{"keep"}, readSlice[string](out))
}
