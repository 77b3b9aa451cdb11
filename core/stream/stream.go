// Package stream defines the resettable sample stream consumed by trainers,
// evaluators and the cross-validator, together with the built-in sources and
// combinators.
//
// A Stream is a forward-only cursor. Read returns io.EOF once the samples are
// exhausted; Reset rewinds to the first sample; Close releases the underlying
// resource. After Close every Read and Reset fails with errors.ErrStreamClosed
// and further Close calls are no-ops.
//
// Streams are not safe for concurrent use. Code that needs several cursors over
// the same data, such as parallel cross-validation, asks for independent ones
// through Reopener.
package stream

import (
	"io"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Stream is a lazy, resettable sequence of samples.
type Stream[T any] interface {
	// Read returns the next sample or io.EOF at the end of the stream.
	Read() (T, error)
	// Reset rewinds the stream to its first sample.
	Reset() error
	// Close releases the resources held by the stream.
	Close() error
}

// ErrNotReopenable is returned by combinators whose source cannot hand out
// independent cursors.
var ErrNotReopenable = errors.New("stream cannot be reopened")

// Reopener is implemented by streams that can hand out an independent cursor
// over the same data. The returned stream starts at the first sample and must
// be closed by the caller.
type Reopener[T any] interface {
	Reopen() (Stream[T], error)
}

// Reopen returns an independent cursor over s. The boolean is false when s,
// or a stream it wraps, cannot be reopened.
func Reopen[T any](s Stream[T]) (Stream[T], bool, error) {
	r, ok := s.(Reopener[T])
	if !ok {
		return nil, false, nil
	}
	cursor, err := r.Reopen()
	if errors.Is(err, ErrNotReopenable) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return cursor, true, nil
}

// SliceStream streams an in-memory slice. The slice is shared, not copied,
// so it must not be modified while the stream is in use.
type SliceStream[T any] struct {
	items  []T
	pos    int
	closed bool
}

// FromSlice creates a stream over items.
func FromSlice[T any](items []T) *SliceStream[T] {
	return &SliceStream[T]{items: items}
}

// Read implements Stream.
func (s *SliceStream[T]) Read() (T, error) {
	var zero T
	if s.closed {
		return zero, errors.ErrStreamClosed
	}
	if s.pos >= len(s.items) {
		return zero, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// Reset implements Stream.
func (s *SliceStream[T]) Reset() error {
	if s.closed {
		return errors.ErrStreamClosed
	}
	s.pos = 0
	return nil
}

// Close implements Stream.
func (s *SliceStream[T]) Close() error {
	s.closed = true
	return nil
}

// Reopen implements Reopener.
func (s *SliceStream[T]) Reopen() (Stream[T], error) {
	if s.closed {
		return nil, errors.ErrStreamClosed
	}
	return FromSlice(s.items), nil
}

// Len returns the number of samples in the stream.
func (s *SliceStream[T]) Len() int {
	return len(s.items)
}

// Collect reads s from its current position until io.EOF.
func Collect[T any](s Stream[T]) ([]T, error) {
	var out []T
	for {
		item, err := s.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
}

// Count reads s from its current position until io.EOF and returns the number of samples.
func Count[T any](s Stream[T]) (int, error) {
	n := 0
	for {
		_, err := s.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
