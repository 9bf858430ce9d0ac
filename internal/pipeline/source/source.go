// Package source implements S1: produce one raw record per line from a
// bounded text source. It delivers bytes exactly and does not parse — file
// discovery and credential loading are handled by the caller.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// Records streams one raw line at a time from r onto the returned channel,
// closing it when r is exhausted, ctx is cancelled, or an I/O error occurs.
// The error channel carries at most one terminal error.
func Records(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			case out <- scanner.Text():
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("source: scan: %w", err)
		}
	}()

	return out, errc
}

// File opens path and streams its lines via Records. The caller owns
// draining both returned channels before the file is considered closed;
// a background goroutine closes the file once the source goroutine exits.
func File(ctx context.Context, path string) (<-chan string, <-chan error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	lines, errc := Records(ctx, f)

	wrapped := make(chan error, 1)
	go func() {
		err, ok := <-errc
		_ = f.Close()
		if ok {
			wrapped <- err
		}
		close(wrapped)
	}()

	return lines, wrapped, nil
}

// Files concatenates multiple bounded sources into a single stream, in
// order, stopping at the first error.
func Files(ctx context.Context, paths []string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		for _, p := range paths {
			lines, ferrc, err := File(ctx, p)
			if err != nil {
				errc <- err
				return
			}
			for line := range lines {
				select {
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				case out <- line:
				}
			}
			if err, ok := <-ferrc; ok {
				errc <- err
				return
			}
		}
	}()

	return out, errc
}
