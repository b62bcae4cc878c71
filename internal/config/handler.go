package config

import "io"

// Handler receives the events emitted by a Stream.
//
// OnData is called once per chunk read from the child's stdout, in order.
// The slice is owned by the handler. Exactly one of OnEnd or OnError is
// called over the lifetime of a stream, unless it is destroyed first, in
// which case neither is. No event follows OnEnd or OnError.
//
// Handlers are invoked from the stream's goroutines. They may call Pause,
// Resume and Destroy on the stream, but must not block indefinitely.
type Handler interface {
	OnData(chunk []byte)
	OnEnd()
	OnError(err error)
}

// HandlerFuncs adapts optional functions to the Handler interface.
// Nil fields ignore the corresponding event.
type HandlerFuncs struct {
	Data  func(chunk []byte)
	End   func()
	Error func(err error)
}

// Compile-time verification that HandlerFuncs implements Handler.
var _ Handler = HandlerFuncs{}

// OnData implements Handler.
func (h HandlerFuncs) OnData(chunk []byte) {
	if h.Data != nil {
		h.Data(chunk)
	}
}

// OnEnd implements Handler.
func (h HandlerFuncs) OnEnd() {
	if h.End != nil {
		h.End()
	}
}

// OnError implements Handler.
func (h HandlerFuncs) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}

// Duplex is the capability set a stream exposes to collaborators such as
// a conversion pipeline or a job queue. Implement it to substitute a fake
// converter in tests.
type Duplex interface {
	io.Writer

	// End writes an optional final chunk and signals end of input.
	End(p []byte) error

	// Pause stops relaying output until Resume is called.
	Pause()

	// Resume restarts relaying output.
	Resume()

	// Destroy cancels the stream and releases the child process.
	// It's safe to call Destroy multiple times.
	Destroy()
}
