// Package procstream streams bytes through an external converter process.
//
// A Stream owns one invocation of a converter such as gifsicle. Input is
// written to the process stdin and its stdout is relayed back as data
// events. The binary is resolved and the process spawned lazily on the
// first write; writes issued in the meantime are buffered and replayed in
// order.
//
// # Basic Usage
//
// For whole-input conversions, use Convert:
//
//	args := procstream.NewGifsicleArgs()
//	if err := args.Resize(320, 0); err != nil {
//	    log.Fatal(err)
//	}
//
//	err := procstream.Convert(ctx, in, out, args.Build(),
//	    procstream.WithTimeout(30*time.Second),
//	)
//
// # Streaming
//
// For incremental input and backpressure, use New with a Handler:
//
//	s := procstream.New(args.Build(), procstream.WithHandler(handler))
//	_, _ = s.Write(chunk)
//	s.Pause()  // stop relaying output
//	s.Resume() // continue
//	_ = s.End(nil)
//
// Exactly one of Handler.OnEnd or Handler.OnError is called, unless the
// stream is destroyed first. Destroy kills the process and discards any
// buffered input.
//
// # Binary Discovery
//
// The converter is located through, in order: WithBinaryPath, the
// PROCSTREAM_<BINARY>_PATH environment variable, the system PATH, and the
// fallback paths (WithFallbackPaths).
//
// # Error Handling
//
// Failures are reported as typed errors:
//
//	err := procstream.Convert(ctx, in, out, args)
//	if notFound, ok := errors.AsType[*procstream.BinaryNotFoundError](err); ok {
//	    log.Fatalf("gifsicle not installed, searched: %v", notFound.SearchedPaths)
//	}
//	if procErr, ok := errors.AsType[*procstream.ProcessError](err); ok {
//	    log.Fatalf("gifsicle failed with exit code %d: %s", procErr.ExitCode, procErr.Stderr)
//	}
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	s := procstream.New(args, procstream.WithLogger(logger))
package procstream
