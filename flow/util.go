package flow

import (
	"sync"

	"github.com/systour/systour"
)

// DoStream streams data from the outlet to inlet.
func DoStream(outlet systour.Outlet, inlet systour.Inlet) {
	go func() {
		for element := range outlet.Out() {
			inlet.In() <- element
		}

		close(inlet.In())
	}()
}

// Merge merges multiple outlets into a single flow.
// When all specified outlets are closed, the resulting flow will close.
// Elements are emitted in arrival order, so outlets that finish early are
// not held back by slower ones.
func Merge(outlets ...systour.Outlet) systour.Flow {
	merged := NewPassThrough()
	var wg sync.WaitGroup
	wg.Add(len(outlets))

	for _, out := range outlets {
		go func(outlet systour.Outlet) {
			defer wg.Done()
			for element := range outlet.Out() {
				merged.In() <- element
			}
		}(out)
	}

	// close the in channel on the last outlet close.
	go func() {
		wg.Wait()
		close(merged.In())
	}()

	return merged
}
