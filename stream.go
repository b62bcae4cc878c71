package procstream

import "github.com/wagiedev/procstream-go/internal/subprocess"

// New creates a Stream that runs the converter with args.
//
// The converter binary is resolved and spawned on the first Write or End,
// so New never fails. Subscribe to events with WithHandler:
//
//	s := procstream.New([]string{"--resize-width", "320"},
//	    procstream.WithHandler(procstream.HandlerFuncs{
//	        Data:  func(chunk []byte) { out.Write(chunk) },
//	        End:   func() { close(done) },
//	        Error: func(err error) { log.Print(err); close(done) },
//	    }),
//	)
//	_, _ = s.Write(gif)
//	_ = s.End(nil)
func New(args []string, opts ...Option) *Stream {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	return subprocess.NewStream(log, args, options)
}
