package crossval

import (
	"io"

	"github.com/YuminosukeSato/seqlearn/core/stream"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Fold is one (train, test) pair. The two streams share a cursor, so the
// training stream must be consumed before the test stream is read.
type Fold[T any] struct {
	Index int
	K     int
	Train stream.Stream[T]
	Test  stream.Stream[T]

	// owned is set when the fold was built on a private cursor
	owned stream.Stream[T]
}

// Close closes both fold streams and, for isolated folds, the private cursor.
// The partitioned stream itself is never closed.
func (f *Fold[T]) Close() error {
	f.Train.Close()
	f.Test.Close()
	if f.owned != nil {
		return f.owned.Close()
	}
	return nil
}

// FoldSize is the number of training and test samples of one fold.
type FoldSize struct {
	Index int
	Train int
	Test  int
}

// Partitioner splits a stream into k folds. The sample at stream position i
// is held out by fold i%k and used for training by every other fold. Folds
// are views that re-read the stream; nothing is buffered.
type Partitioner[T any] struct {
	samples stream.Stream[T]
	k       int
	next    int
}

// NewPartitioner creates a partitioner for k >= 2 folds.
func NewPartitioner[T any](samples stream.Stream[T], k int) (*Partitioner[T], error) {
	if samples == nil {
		return nil, errors.NewValidationError("samples", "stream must not be nil", nil)
	}
	if k < 2 {
		return nil, errors.NewValidationError("k", "number of folds must be at least 2", k)
	}
	return &Partitioner[T]{samples: samples, k: k}, nil
}

// K returns the number of folds.
func (p *Partitioner[T]) K() int {
	return p.k
}

// Next returns the folds in order 0..k-1 and io.EOF afterwards.
func (p *Partitioner[T]) Next() (*Fold[T], error) {
	if p.next >= p.k {
		return nil, io.EOF
	}
	f, err := p.Fold(p.next)
	if err != nil {
		return nil, err
	}
	p.next++
	return f, nil
}

// Fold builds fold i over the partitioned stream itself. Folds built this way
// share one cursor and must be used one at a time.
func (p *Partitioner[T]) Fold(i int) (*Fold[T], error) {
	if i < 0 || i >= p.k {
		return nil, errors.NewValidationError("fold", "index out of range", i)
	}
	return p.build(i, p.samples, nil), nil
}

// Isolated builds fold i over a private cursor obtained from stream.Reopen,
// so it can be used concurrently with other isolated folds. The boolean is
// false when the stream cannot be reopened.
func (p *Partitioner[T]) Isolated(i int) (*Fold[T], bool, error) {
	if i < 0 || i >= p.k {
		return nil, false, errors.NewValidationError("fold", "index out of range", i)
	}
	cursor, ok, err := stream.Reopen(p.samples)
	if err != nil || !ok {
		return nil, ok, err
	}
	return p.build(i, cursor, cursor), true, nil
}

func (p *Partitioner[T]) build(i int, src, owned stream.Stream[T]) *Fold[T] {
	c := &cursor[T]{src: src}
	return &Fold[T]{
		Index: i,
		K:     p.k,
		Train: &foldStream[T]{cursor: c, fold: i, k: p.k, test: false},
		Test:  &foldStream[T]{cursor: c, fold: i, k: p.k, test: true},
		owned: owned,
	}
}

// Sizes counts the training and test samples of every fold in a single pass.
// The stream is reset before and after counting.
func (p *Partitioner[T]) Sizes() ([]FoldSize, error) {
	if err := p.samples.Reset(); err != nil {
		return nil, err
	}
	sizes := make([]FoldSize, p.k)
	total := 0
	for {
		_, err := p.samples.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read sample %d", total)
		}
		sizes[total%p.k].Test++
		total++
	}
	for i := range sizes {
		sizes[i].Index = i
		sizes[i].Train = total - sizes[i].Test
	}
	return sizes, p.samples.Reset()
}

// cursor is the read position over the source shared by a fold's streams.
type cursor[T any] struct {
	src stream.Stream[T]
	pos int
}

// foldStream yields the members of one side of a fold. Its first Read after
// creation or Reset rewinds the shared cursor.
type foldStream[T any] struct {
	cursor  *cursor[T]
	fold    int
	k       int
	test    bool
	started bool
	closed  bool
}

func (s *foldStream[T]) Read() (T, error) {
	var zero T
	if s.closed {
		return zero, errors.ErrStreamClosed
	}
	if !s.started {
		if err := s.cursor.src.Reset(); err != nil {
			return zero, errors.Wrapf(err, "reset for fold %d", s.fold)
		}
		s.cursor.pos = 0
		s.started = true
	}
	for {
		item, err := s.cursor.src.Read()
		if err == io.EOF {
			return zero, io.EOF
		}
		if err != nil {
			return zero, errors.Wrapf(err, "fold %d: read sample %d", s.fold, s.cursor.pos)
		}
		heldOut := s.cursor.pos%s.k == s.fold
		s.cursor.pos++
		if heldOut == s.test {
			return item, nil
		}
	}
}

func (s *foldStream[T]) Reset() error {
	if s.closed {
		return errors.ErrStreamClosed
	}
	s.started = false
	return nil
}

func (s *foldStream[T]) Close() error {
	s.closed = true
	return nil
}
