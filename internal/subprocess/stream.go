package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/procstream-go/internal/cli"
	"github.com/wagiedev/procstream-go/internal/config"
	"github.com/wagiedev/procstream-go/internal/errors"
	"github.com/wagiedev/procstream-go/internal/metrics"
)

const (
	// readBufferSize is the size of each read from the child's stdout.
	readBufferSize = 64 * 1024
	// maxStderrBufferSize caps the stderr kept for ProcessError.
	// Lines past the cap still reach the Stderr callback.
	maxStderrBufferSize = 1024 * 1024
	// maxStderrLineSize is the longest stderr line handed to the callback.
	maxStderrLineSize = 1024 * 1024
)

// pendingChunk is input received before the child exists.
// eof marks the point where stdin must be closed.
type pendingChunk struct {
	data []byte
	eof  bool
}

// child is a running converter process.
type child struct {
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderr      io.ReadCloser
	stdinClosed bool // guarded by Stream.writeMu
	exited      bool // guarded by Stream.mu

	relayDone chan struct{} // closed when relay returns
}

// Stream bridges a push-based byte stream to a single child process.
//
// Input written before the child exists is buffered while the binary is
// resolved, then replayed in order. Output is delivered to the Handler as
// data events, followed by exactly one end or error event.
type Stream struct {
	id       string
	log      *slog.Logger
	args     []string
	binary   string
	options  *config.Options
	resolver *cli.Resolver
	handler  config.Handler
	metrics  metrics.Recorder
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	// mu is always acquired last. writeMu and emitMu are never held together.
	writeMu sync.Mutex // Serializes stdin writes, including the spawn flush
	emitMu  sync.Mutex // Serializes handler callbacks

	mu         sync.Mutex
	cond       *sync.Cond
	ended      bool
	paused     bool
	spawning   bool
	seenOutput bool
	proc       *child
	pending    []pendingChunk
	timer      *time.Timer
	startedAt  time.Time
	err        error
}

// Compile-time verification that Stream implements the Duplex interface.
var _ config.Duplex = (*Stream)(nil)

// NewStream creates a stream that will run the configured binary with args.
// Nothing is spawned until the first Write or End.
func NewStream(log *slog.Logger, args []string, options *config.Options) *Stream {
	if options == nil {
		options = &config.Options{}
	}

	handler := options.Handler
	if handler == nil {
		handler = config.HandlerFuncs{}
	}

	recorder := options.Metrics
	if recorder == nil {
		recorder = metrics.Nop()
	}

	binary := options.BinaryName()
	id := ulid.Make().String()
	log = log.With("component", "stream", "stream_id", id, "binary", binary)

	resolver := cli.NewResolver(cli.NewDiscoverer(&cli.Config{
		Binary:         binary,
		BinaryPath:     options.BinaryPath,
		FallbackPaths:  options.FallbackPaths,
		MinimumVersion: options.MinimumVersion,
		Logger:         log,
	}))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Stream{
		id:       id,
		log:      log,
		args:     slices.Clone(args),
		binary:   binary,
		options:  options,
		resolver: resolver,
		handler:  handler,
		metrics:  recorder,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	return s
}

// ID returns the unique identifier used in log records.
func (s *Stream) ID() string { return s.id }

// Args returns a copy of the process arguments.
func (s *Stream) Args() []string { return slices.Clone(s.args) }

// Done returns a channel closed when the stream reaches its terminal state.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Err returns the error that ended the stream. It is nil while the stream
// is running, after a successful end, and after Destroy.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Ended reports whether the stream reached its terminal state.
func (s *Stream) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ended
}

// Write sends p to the child's stdin, spawning the child on first use.
//
// Bytes written before the child exists are copied and buffered. Write
// errors on stdin are ignored: a child that stops reading reports its
// failure through its exit status. After the terminal state Write returns
// ErrStreamEnded and has no other effect.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()

	if s.ended {
		s.mu.Unlock()

		return 0, errors.ErrStreamEnded
	}

	if proc := s.proc; proc != nil {
		s.mu.Unlock()

		s.writeMu.Lock()
		s.writeChunkLocked(proc, p)
		s.writeMu.Unlock()

		return len(p), nil
	}

	s.bufferLocked(pendingChunk{data: bytes.Clone(p)})
	s.mu.Unlock()

	return len(p), nil
}

// End writes an optional final chunk and closes the child's stdin.
// If the child does not exist yet, stdin is closed right after the
// buffered input is replayed.
func (s *Stream) End(p []byte) error {
	if len(p) > 0 {
		if _, err := s.Write(p); err != nil {
			return err
		}
	}

	s.mu.Lock()

	if s.ended {
		s.mu.Unlock()

		return errors.ErrStreamEnded
	}

	if proc := s.proc; proc != nil {
		s.mu.Unlock()

		s.writeMu.Lock()
		s.closeStdinLocked(proc)
		s.writeMu.Unlock()

		return nil
	}

	s.bufferLocked(pendingChunk{eof: true})
	s.mu.Unlock()

	return nil
}

// Pause stops reading the child's stdout. A Pause issued before the child
// is spawned takes effect as soon as it starts.
func (s *Stream) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume restarts reading the child's stdout.
func (s *Stream) Resume() {
	s.mu.Lock()
	s.paused = false
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Destroy kills the child and discards buffered input without emitting any
// event. It does not wait for the child to exit. It's safe to call Destroy
// multiple times.
func (s *Stream) Destroy() {
	s.mu.Lock()
	won := s.settleLocked(nil)
	elapsed := s.elapsedLocked()
	s.mu.Unlock()

	if won {
		s.log.Debug("Stream destroyed")
		s.metrics.StreamFinished(s.binary, metrics.OutcomeDestroyed, elapsed)
	}
}

// bufferLocked queues c and starts resolution if it is not running yet.
func (s *Stream) bufferLocked(c pendingChunk) {
	if !s.spawning {
		s.spawning = true

		go s.spawn()
	}

	s.pending = append(s.pending, c)
}

// spawn resolves the binary, starts the child and replays pending input.
func (s *Stream) spawn() {
	path, resolveErr := s.resolver.Resolve(s.ctx)

	s.writeMu.Lock()
	s.mu.Lock()

	if s.ended {
		s.mu.Unlock()
		s.writeMu.Unlock()

		return
	}

	if resolveErr != nil {
		s.mu.Unlock()
		s.writeMu.Unlock()
		s.fail(resolveErr)

		return
	}

	s.seenOutput = false

	proc, err := s.start(path)
	if err != nil {
		s.mu.Unlock()
		s.writeMu.Unlock()
		s.fail(err)

		return
	}

	s.proc = proc
	s.startedAt = time.Now()

	if s.options.Timeout > 0 {
		s.timer = time.AfterFunc(s.options.Timeout, s.timeout)
	}

	chunks := s.pending
	s.pending = nil
	s.spawning = false
	s.mu.Unlock()

	s.metrics.StreamStarted(s.binary)

	go s.relay(proc)

	for _, c := range chunks {
		if c.eof {
			s.closeStdinLocked(proc)

			continue
		}

		s.writeChunkLocked(proc, c.data)
	}

	s.writeMu.Unlock()
}

// start launches the child with its three pipes.
func (s *Stream) start(path string) (*child, error) {
	//nolint:gosec // G204: Subprocess launching with dynamic args is expected for converter invocation
	cmd := exec.Command(path, s.args...)
	cmd.Dir = s.options.Cwd
	cmd.Env = cli.BuildEnvironment(s.options.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: path, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: path, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		s.log.Error("Failed to start converter process", "error", err)

		return nil, &errors.SpawnError{Path: path, Err: fmt.Errorf("start process: %w", err)}
	}

	s.log.Debug("Converter process started", "pid", cmd.Process.Pid, "args", s.args)

	return &child{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		relayDone: make(chan struct{}),
	}, nil
}

func (s *Stream) writeChunkLocked(proc *child, p []byte) {
	if proc.stdinClosed || len(p) == 0 {
		return
	}

	if _, err := proc.stdin.Write(p); err != nil {
		s.log.Debug("Ignoring stdin write error", "error", err)

		return
	}

	s.metrics.BytesIn(s.binary, len(p))
}

func (s *Stream) closeStdinLocked(proc *child) {
	if proc.stdinClosed {
		return
	}

	proc.stdinClosed = true

	if err := proc.stdin.Close(); err != nil {
		s.log.Debug("Ignoring stdin close error", "error", err)
	}
}

// relay copies stdout into data events, then waits for the child and
// settles the stream. stdout is drained before the exit status is
// inspected, so a non-zero exit always wins over output already relayed.
func (s *Stream) relay(proc *child) {
	defer close(proc.relayDone)

	var (
		stderrWg     sync.WaitGroup
		stderrBuffer strings.Builder
	)

	stderrWg.Go(func() {
		scanner := bufio.NewScanner(proc.stderr)
		scanner.Buffer(make([]byte, 0, 4096), maxStderrLineSize)

		for scanner.Scan() {
			line := scanner.Text()

			if stderrBuffer.Len() < maxStderrBufferSize {
				if stderrBuffer.Len() > 0 {
					stderrBuffer.WriteString("\n")
				}

				stderrBuffer.WriteString(line)
			}

			if s.options.Stderr != nil {
				s.options.Stderr(line)
			}
		}

		if err := scanner.Err(); err != nil {
			s.log.Debug("Stderr scanner error", "error", err)

			// Keep draining so the child never blocks on a full stderr pipe
			_, _ = io.Copy(io.Discard, proc.stderr)
		}
	})

	buf := make([]byte, readBufferSize)

	for s.waitWhilePaused() {
		n, err := proc.stdout.Read(buf)
		if n > 0 {
			s.emitData(bytes.Clone(buf[:n]))
		}

		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				s.log.Debug("Stdout read error", "error", err)
			}

			break
		}
	}

	stderrWg.Wait()

	waitErr := proc.cmd.Wait()

	s.finish(proc, waitErr, strings.TrimSpace(stderrBuffer.String()))
}

// waitWhilePaused blocks while the stream is paused and reports whether
// reading should continue.
func (s *Stream) waitWhilePaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.paused && !s.ended {
		s.cond.Wait()
	}

	return !s.ended
}

func (s *Stream) emitData(chunk []byte) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()

		return
	}

	s.seenOutput = true
	s.mu.Unlock()

	s.metrics.BytesOut(s.binary, len(chunk))
	s.handler.OnData(chunk)
}

// finish decides the outcome once the child has exited.
func (s *Stream) finish(proc *child, waitErr error, stderr string) {
	s.mu.Lock()
	proc.exited = true
	ended := s.ended
	seenOutput := s.seenOutput
	s.mu.Unlock()

	if ended {
		s.log.Debug("Converter process exited after stream ended", "error", waitErr)

		return
	}

	if waitErr != nil {
		if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
			s.log.Error("Converter process exited with error", "exit_code", exitErr.ExitCode(), "stderr", stderr)

			s.fail(&errors.ProcessError{
				Binary:   s.binary,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr,
				Err:      waitErr,
			})

			return
		}

		s.fail(&errors.SpawnError{Path: proc.cmd.Path, Err: waitErr})

		return
	}

	if !seenOutput {
		s.fail(&errors.EmptyOutputError{Binary: s.binary})

		return
	}

	s.mu.Lock()
	won := s.settleLocked(nil)
	elapsed := s.elapsedLocked()
	s.mu.Unlock()

	if !won {
		return
	}

	s.log.Debug("Converter process finished", "elapsed", elapsed)
	s.metrics.StreamFinished(s.binary, metrics.OutcomeEnd, elapsed)

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.handler.OnEnd()
}

func (s *Stream) timeout() {
	s.log.Warn("Converter process timed out", "timeout", s.options.Timeout)
	s.fail(&errors.TimeoutError{Binary: s.binary, Timeout: s.options.Timeout})
}

// fail ends the stream with err. Only the first terminal signal is emitted.
// The child is killed right away; the error event waits for any data event
// still running in the handler.
func (s *Stream) fail(err error) {
	s.mu.Lock()
	won := s.settleLocked(err)
	elapsed := s.elapsedLocked()
	s.mu.Unlock()

	if !won {
		return
	}

	s.log.Debug("Stream failed", "error", err)
	s.metrics.StreamFinished(s.binary, metrics.OutcomeError, elapsed)

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.handler.OnError(err)
}

// settleLocked moves the stream to its terminal state and releases the
// child and the pending buffer. It reports whether this call did so.
//
// The pipes are closed as well as the child killed: a wrapper that forked
// its worker would otherwise keep them open and block relay forever.
func (s *Stream) settleLocked(err error) bool {
	if s.ended {
		return false
	}

	s.ended = true
	s.err = err

	if s.timer != nil {
		s.timer.Stop()
	}

	if s.proc != nil {
		if !s.proc.exited {
			if killErr := s.proc.cmd.Process.Kill(); killErr != nil {
				s.log.Debug("Kill converter process", "error", killErr)
			}
		}

		s.releasePipes(s.proc)
		s.proc = nil
	}

	s.pending = nil
	s.cancel()
	s.cond.Broadcast()
	close(s.done)

	return true
}

// releasePipes closes the parent's ends of the child's pipes. Closing an
// *os.File unblocks a Read or Write in progress on it.
func (s *Stream) releasePipes(proc *child) {
	for name, c := range map[string]io.Closer{
		"stdin":  proc.stdin,
		"stdout": proc.stdout,
		"stderr": proc.stderr,
	} {
		if err := c.Close(); err != nil && !stderrors.Is(err, os.ErrClosed) {
			s.log.Debug("Close converter pipe", "pipe", name, "error", err)
		}
	}
}

func (s *Stream) elapsedLocked() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}

	return time.Since(s.startedAt)
}
