package extension

import (
	"github.com/systour/systour"
	"github.com/systour/systour/flow"
)

// ChanSource represents an inbound connector that streams items from a channel.
type ChanSource struct {
	in chan any
}

var _ systour.Source = (*ChanSource)(nil)

// NewChanSource returns a new ChanSource connector.
func NewChanSource(in chan any) *ChanSource {
	return &ChanSource{
		in: in,
	}
}

// Via asynchronously streams data to the given Flow and returns it.
func (cs *ChanSource) Via(operator systour.Flow) systour.Flow {
	flow.DoStream(cs, operator)
	return operator
}

// Out returns the output channel of the ChanSource connector.
func (cs *ChanSource) Out() <-chan any {
	return cs.in
}

// ChanSink represents an outbound connector that writes streaming data
// to a channel.
type ChanSink struct {
	Out  chan any
	in   chan any
	done chan struct{}
}

var _ systour.Sink = (*ChanSink)(nil)

// NewChanSink returns a new ChanSink connector.
// The out channel is closed once the upstream is exhausted.
func NewChanSink(out chan any) *ChanSink {
	sink := &ChanSink{
		Out:  out,
		in:   make(chan any),
		done: make(chan struct{}),
	}

	// asynchronously process stream data
	go sink.process()

	return sink
}

func (ch *ChanSink) process() {
	defer close(ch.done)
	for element := range ch.in {
		ch.Out <- element
	}
	close(ch.Out)
}

// In returns the input channel of the ChanSink connector.
func (ch *ChanSink) In() chan<- any {
	return ch.in
}

// AwaitCompletion blocks until the ChanSink has forwarded all received data.
func (ch *ChanSink) AwaitCompletion() {
	<-ch.done
}
