// Package systour is a command-line tour of operating system and filesystem
// facilities. The root package defines the channel pipeline contracts the
// tour's file activities, resource monitor and live palette feed are built on.
package systour

// Inlet represents a type that exposes one open input.
type Inlet interface {
	In() chan<- any
}

// Outlet represents a type that exposes one open output.
type Outlet interface {
	Out() <-chan any
}

// Source represents a set of stream processing steps that has one open output.
type Source interface {
	Outlet
	Via(Flow) Flow
}

// Flow represents a set of stream processing steps that has one open input
// and one open output.
type Flow interface {
	Inlet
	Outlet
	Via(Flow) Flow
	To(Sink)
}

// Sink represents a set of stream processing steps that has one open input.
type Sink interface {
	Inlet
	AwaitCompletion()
}
