package flow

import (
	"fmt"
	"sync"

	"github.com/systour/systour"
)

// FilterPredicate reports whether an element stays in the stream.
type FilterPredicate[T any] func(T) bool

// Filter passes on the elements its predicate accepts and drops the rest,
// such as the control and binary frames ahead of a decoding Map.
// Elements that are not a T are dropped without calling the predicate.
type Filter[T any] struct {
	keep    FilterPredicate[T]
	in      chan any
	out     chan any
	workers int
}

var _ systour.Flow = (*Filter[any])(nil)

// NewFilter returns a Filter running keep on workers goroutines. Output
// order follows input order only with a single worker. It panics if
// workers is less than 1.
func NewFilter[T any](keep FilterPredicate[T], workers int) *Filter[T] {
	if workers < 1 {
		panic(fmt.Sprintf("nonpositive Filter parallelism: %d", workers))
	}

	filter := &Filter[T]{
		keep:    keep,
		in:      make(chan any),
		out:     make(chan any),
		workers: workers,
	}
	go filter.stream()

	return filter
}

// Via asynchronously streams the kept elements to the given Flow and
// returns it.
func (f *Filter[T]) Via(operator systour.Flow) systour.Flow {
	go f.transmit(operator)
	return operator
}

// To streams the kept elements to sink and waits for it to complete.
func (f *Filter[T]) To(sink systour.Sink) {
	f.transmit(sink)
	sink.AwaitCompletion()
}

func (f *Filter[T]) Out() <-chan any {
	return f.out
}

func (f *Filter[T]) In() chan<- any {
	return f.in
}

func (f *Filter[T]) transmit(inlet systour.Inlet) {
	for element := range f.out {
		inlet.In() <- element
	}
	close(inlet.In())
}

func (f *Filter[T]) stream() {
	var wg sync.WaitGroup
	wg.Add(f.workers)
	for range f.workers {
		go func() {
			defer wg.Done()
			for element := range f.in {
				if v, ok := element.(T); ok && f.keep(v) {
					f.out <- element
				}
			}
		}()
	}

	wg.Wait()
	close(f.out)
}
