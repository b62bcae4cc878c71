package procstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Convert runs one Stream over r and writes its output to w.
//
// It returns nil when the converter ends successfully, the stream error
// otherwise. Cancelling ctx destroys the stream and returns ctx.Err().
// Convert returns only after r has been drained or failed. A Handler set
// through opts still receives every event.
func Convert(ctx context.Context, r io.Reader, w io.Writer, args []string, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	user := applyOptions(opts).Handler

	var (
		s        *Stream
		writeMu  sync.Mutex
		writeErr error
	)

	forward := HandlerFuncs{
		Data: func(chunk []byte) {
			writeMu.Lock()
			failed := writeErr != nil

			if !failed {
				if _, err := w.Write(chunk); err != nil {
					writeErr = fmt.Errorf("write output: %w", err)
					failed = true
				}
			}
			writeMu.Unlock()

			if failed {
				s.Destroy()

				return
			}

			if user != nil {
				user.OnData(chunk)
			}
		},
		End: func() {
			if user != nil {
				user.OnEnd()
			}
		},
		Error: func(err error) {
			if user != nil {
				user.OnError(err)
			}
		},
	}

	s = New(args, append(slices.Clone(opts), WithHandler(forward))...)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := io.Copy(s, r); err != nil {
			if errors.Is(err, ErrStreamEnded) {
				return nil
			}

			s.Destroy()

			return fmt.Errorf("read input: %w", err)
		}

		if err := s.End(nil); err != nil && !errors.Is(err, ErrStreamEnded) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		select {
		case <-s.Done():
			writeMu.Lock()
			defer writeMu.Unlock()

			if writeErr != nil {
				return writeErr
			}

			return s.Err()
		case <-gCtx.Done():
			s.Destroy()

			return gCtx.Err()
		}
	})

	return g.Wait()
}
