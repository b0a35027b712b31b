package vfs

import (
	"context"
	"io"
	"io/fs"
)

type streamState int

const (
	stateIdle streamState = iota
	stateOpening
	stateEnumerating
	stateFetching
)

func (s streamState) String() string {
	switch s {
	case stateOpening:
		return "opening"
	case stateEnumerating:
		return "enumerating"
	case stateFetching:
		return "fetching"
	}
	return "idle"
}

// pending is one backend call running in the background. val and err are
// written before done is closed and read only after.
type pending[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func start[T any](fn func() (T, error)) *pending[T] {
	p := &pending[T]{done: make(chan struct{})}
	go func() {
		p.val, p.err = fn()
		close(p.done)
	}()
	return p
}

func (p *pending[T]) ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Stream is the polled form of Walker. Poll never blocks: whenever the
// next step needs the backend (opening a directory, fetching an entry,
// reading its metadata) the call is started in the background and Poll
// returns ErrPending until it completes. Ready reports when to poll again.
//
// Each backend call runs on a goroutine of its own, one at a time, so the
// backend is called from goroutines other than the caller's. Backends that
// must stay on one goroutine should be walked with Walker instead.
//
// Files are yielded in the same order Walker yields them. A Stream is not
// safe for concurrent use.
type Stream[P TypedPath[P]] struct {
	frontier []P
	filter   func(P) bool
	state    streamState

	opening *pending[DirEntries[P]]
	entries DirEntries[P]
	fetch   *pending[P]
	entry   P
	meta    *pending[Metadata]
	closed  bool
}

// NewStream returns a Stream over the files beneath root. A nil filter
// accepts every file.
func NewStream[P TypedPath[P]](root P, filter func(P) bool) *Stream[P] {
	return &Stream[P]{frontier: []P{root}, filter: filter}
}

// Poll advances the traversal as far as it can without waiting. It returns
// the next file, ErrPending when backend I/O is still in flight, io.EOF at
// the end, or an error for a single directory or entry after which polling
// may continue.
func (s *Stream[P]) Poll() (P, error) {
	var zero P
	if s.closed {
		return zero, fs.ErrClosed
	}
	for {
		switch s.state {
		case stateIdle:
			if len(s.frontier) == 0 {
				return zero, io.EOF
			}
			dir := s.frontier[len(s.frontier)-1]
			s.frontier = s.frontier[:len(s.frontier)-1]
			s.opening = start(dir.ReadDir)
			s.state = stateOpening

		case stateOpening:
			if !s.opening.ready() {
				return zero, ErrPending
			}
			op := s.opening
			s.opening = nil
			if op.err != nil {
				s.state = stateIdle
				return zero, op.err
			}
			s.entries = op.val
			s.state = stateEnumerating

		case stateEnumerating:
			if s.fetch == nil {
				s.fetch = start(s.entries.Next)
			}
			if !s.fetch.ready() {
				return zero, ErrPending
			}
			f := s.fetch
			s.fetch = nil
			if f.err != nil {
				s.entries.Close()
				s.entries = nil
				s.state = stateIdle
				if f.err == io.EOF {
					continue
				}
				return zero, f.err
			}
			s.entry = f.val
			s.meta = start(f.val.Metadata)
			s.state = stateFetching

		case stateFetching:
			if !s.meta.ready() {
				return zero, ErrPending
			}
			m := s.meta
			entry := s.entry
			s.meta = nil
			s.entry = zero
			s.state = stateEnumerating
			if m.err != nil {
				return zero, m.err
			}
			if m.val.IsDir() {
				s.frontier = append(s.frontier, entry)
				continue
			}
			if s.filter == nil || s.filter(entry) {
				return entry, nil
			}
		}
	}
}

// Ready returns a channel that is closed once the operation Poll is
// waiting on has completed. When nothing is in flight the channel is
// already closed.
func (s *Stream[P]) Ready() <-chan struct{} {
	switch {
	case s.opening != nil:
		return s.opening.done
	case s.fetch != nil:
		return s.fetch.done
	case s.meta != nil:
		return s.meta.done
	}
	return closedChan
}

// Next polls until a file, io.EOF or an error is available, waiting on
// Ready in between. It returns ctx.Err() if ctx is done first.
func (s *Stream[P]) Next(ctx context.Context) (P, error) {
	for {
		p, err := s.Poll()
		if err != ErrPending {
			return p, err
		}
		select {
		case <-s.Ready():
		case <-ctx.Done():
			var zero P
			return zero, ctx.Err()
		}
	}
}

// Close releases the directory being enumerated. A directory still being
// opened is closed as soon as the open completes.
func (s *Stream[P]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.frontier = nil
	entries := s.entries
	s.entries = nil
	switch {
	case s.opening != nil:
		op := s.opening
		go func() {
			<-op.done
			if op.err == nil {
				op.val.Close()
			}
		}()
	case s.fetch != nil:
		f := s.fetch
		go func() {
			<-f.done
			entries.Close()
		}()
	case entries != nil:
		return entries.Close()
	}
	return nil
}
