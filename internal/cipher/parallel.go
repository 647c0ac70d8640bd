package cipher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// transformChunked splits text into p.workers contiguous chunks, runs
// the transform on every chunk concurrently and reassembles the results
// by chunk index, never by completion order. Chunk lengths sum exactly
// to the text length (the last chunk absorbs the remainder), and the
// cipher must be chunk-local, so the output is byte-identical to a
// sequential transform.
//
// The join is deadline-bounded: if the tasks have not all finished
// within p.wait, the run fails with ErrChunkWait instead of polling
// forever. Inputs shorter than the worker count take the sequential
// path; by the determinism invariant the output is the same.
func (p *Pipeline) transformChunked(ctx context.Context, c Cipher, text string, mode Mode) (string, error) {
	workers := p.workers
	if workers <= 1 || len(text) < workers {
		return c.Transform(text, mode), nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.wait)
	defer cancel()

	chunkSize := len(text) / workers
	parts := make([]string, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		start := i * chunkSize
		end := start + chunkSize
		if i == workers-1 {
			end = len(text)
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			parts[i] = c.Transform(text[start:end], mode)
			return nil
		})
	}

	// Join with the deadline rather than waiting unconditionally. A
	// task still running after the deadline finishes on its own; the
	// buffered channel lets the waiter goroutine exit regardless.
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return "", chunkErr(err, p.wait)
		}
		return strings.Join(parts, ""), nil
	case <-ctx.Done():
		return "", chunkErr(ctx.Err(), p.wait)
	}
}

// chunkErr maps a missed deadline to ErrChunkWait and passes caller
// cancellation through untouched.
func chunkErr(cause error, wait time.Duration) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w (waited %s)", ErrChunkWait, wait)
	}
	return cause
}
