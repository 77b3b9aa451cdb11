package stream

import (
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// MapFunc decodes one upstream element into a sample.
type MapFunc[S, T any] func(S) (T, error)

// Map returns a stream that applies fn to every element of src. Errors from
// fn stop the read and are returned wrapped; the stream may be read further.
// Reset and Close are forwarded to src.
func Map[S, T any](src Stream[S], fn MapFunc[S, T]) Stream[T] {
	return &mapStream[S, T]{src: src, fn: fn}
}

type mapStream[S, T any] struct {
	src Stream[S]
	fn  MapFunc[S, T]
}

func (m *mapStream[S, T]) Read() (T, error) {
	var zero T
	item, err := m.src.Read()
	if err != nil {
		return zero, err
	}
	out, err := m.fn(item)
	if err != nil {
		return zero, errors.Wrap(err, "decode sample")
	}
	return out, nil
}

func (m *mapStream[S, T]) Reset() error { return m.src.Reset() }
func (m *mapStream[S, T]) Close() error { return m.src.Close() }

func (m *mapStream[S, T]) Reopen() (Stream[T], error) {
	cursor, ok, err := Reopen(m.src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrNotReopenable, "%T", m.src)
	}
	return Map(cursor, m.fn), nil
}

// Filter returns a stream that yields only the elements of src for which keep
// returns true. Reset and Close are forwarded to src.
func Filter[T any](src Stream[T], keep func(T) bool) Stream[T] {
	return &filterStream[T]{src: src, keep: keep}
}

type filterStream[T any] struct {
	src  Stream[T]
	keep func(T) bool
}

func (f *filterStream[T]) Read() (T, error) {
	for {
		item, err := f.src.Read()
		if err != nil {
			return item, err
		}
		if f.keep(item) {
			return item, nil
		}
	}
}

func (f *filterStream[T]) Reset() error { return f.src.Reset() }
func (f *filterStream[T]) Close() error { return f.src.Close() }

func (f *filterStream[T]) Reopen() (Stream[T], error) {
	cursor, ok, err := Reopen(f.src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrNotReopenable, "%T", f.src)
	}
	return Filter(cursor, f.keep), nil
}
