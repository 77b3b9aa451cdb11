package crossval

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/seqlearn/core/stream"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// plain hides Reopen of the wrapped stream.
type plain[T any] struct {
	stream.Stream[T]
}

// failingStream fails when reading position failAt.
type failingStream[T any] struct {
	items  []T
	pos    int
	failAt int
	err    error
}

func (s *failingStream[T]) Read() (T, error) {
	var zero T
	if s.pos == s.failAt {
		return zero, s.err
	}
	if s.pos >= len(s.items) {
		return zero, io.EOF
	}
	s.pos++
	return s.items[s.pos-1], nil
}

func (s *failingStream[T]) Reset() error { s.pos = 0; return nil }
func (s *failingStream[T]) Close() error { return nil }

func TestNewPartitionerValidation(t *testing.T) {
	tests := []struct {
		name    string
		samples stream.Stream[int]
		k       int
	}{
		{"nil stream", nil, 5},
		{"one fold", stream.FromSlice(ints(3)), 1},
		{"zero folds", stream.FromSlice(ints(3)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPartitioner(tt.samples, tt.k)
			var verr *errors.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestPartitionerReconstructsStream(t *testing.T) {
	const n, k = 25, 10
	p, err := NewPartitioner(stream.FromSlice(ints(n)), k)
	require.NoError(t, err)

	seen := make(map[int]int)
	for f := 0; ; f++ {
		fold, err := p.Next()
		if err == io.EOF {
			assert.Equal(t, k, f)
			break
		}
		require.NoError(t, err)
		assert.Equal(t, f, fold.Index)
		assert.Equal(t, k, fold.K)

		train, err := stream.Collect(fold.Train)
		require.NoError(t, err)
		test, err := stream.Collect(fold.Test)
		require.NoError(t, err)

		for _, x := range test {
			assert.Equal(t, f, x%k)
			seen[x]++
		}
		for _, x := range train {
			assert.NotEqual(t, f, x%k)
		}
		assert.Equal(t, n, len(train)+len(test))
		require.NoError(t, fold.Close())
	}
	assert.Len(t, seen, n)
	for x, c := range seen {
		assert.Equal(t, 1, c, "sample %d", x)
	}
}

func TestPartitionerFoldSizes(t *testing.T) {
	p, err := NewPartitioner(stream.FromSlice(ints(20)), 10)
	require.NoError(t, err)

	sizes, err := p.Sizes()
	require.NoError(t, err)
	require.Len(t, sizes, 10)
	for i, s := range sizes {
		assert.Equal(t, FoldSize{Index: i, Train: 18, Test: 2}, s)
	}

	fold, err := p.Fold(4)
	require.NoError(t, err)
	train, err := stream.Collect(fold.Train)
	require.NoError(t, err)
	test, err := stream.Collect(fold.Test)
	require.NoError(t, err)
	assert.Len(t, train, 18)
	assert.Equal(t, []int{4, 14}, test)

	_, err = p.Fold(10)
	assert.Error(t, err)
}

func TestPartitionerIsDeterministic(t *testing.T) {
	collect := func() [][]int {
		p, err := NewPartitioner(stream.FromSlice(ints(13)), 4)
		require.NoError(t, err)
		var out [][]int
		for {
			fold, err := p.Next()
			if err == io.EOF {
				return out
			}
			require.NoError(t, err)
			train, err := stream.Collect(fold.Train)
			require.NoError(t, err)
			test, err := stream.Collect(fold.Test)
			require.NoError(t, err)
			out = append(out, train, test)
		}
	}
	assert.Equal(t, collect(), collect())
}

func TestFoldStreamReset(t *testing.T) {
	p, err := NewPartitioner(stream.FromSlice(ints(6)), 3)
	require.NoError(t, err)
	fold, err := p.Fold(1)
	require.NoError(t, err)

	first, err := stream.Collect(fold.Train)
	require.NoError(t, err)
	require.NoError(t, fold.Train.Reset())
	second, err := stream.Collect(fold.Train)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 5}, first)
	assert.Equal(t, first, second)

	require.NoError(t, fold.Close())
	_, err = fold.Train.Read()
	assert.ErrorIs(t, err, errors.ErrStreamClosed)
}

func TestIsolatedFoldsUsePrivateCursors(t *testing.T) {
	src := stream.FromSlice(ints(9))
	p, err := NewPartitioner[int](src, 3)
	require.NoError(t, err)

	a, ok, err := p.Isolated(0)
	require.NoError(t, err)
	require.True(t, ok)
	b, ok, err := p.Isolated(1)
	require.NoError(t, err)
	require.True(t, ok)

	// interleaved reads must not disturb each other
	x, err := a.Train.Read()
	require.NoError(t, err)
	y, err := b.Train.Read()
	require.NoError(t, err)
	x2, err := a.Train.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 2, x2)

	require.NoError(t, a.Close())
	require.NoError(t, b.Close())

	// the caller's stream stays open
	_, err = src.Read()
	assert.NoError(t, err)
}

func TestIsolatedWithoutReopener(t *testing.T) {
	p, err := NewPartitioner[int](plain[int]{stream.FromSlice(ints(4))}, 2)
	require.NoError(t, err)
	fold, ok, err := p.Isolated(0)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, fold)
}

func TestFoldPropagatesReadErrors(t *testing.T) {
	boom := errors.New("disk gone")
	p, err := NewPartitioner[int](&failingStream[int]{items: ints(10), failAt: 3, err: boom}, 2)
	require.NoError(t, err)
	fold, err := p.Fold(0)
	require.NoError(t, err)

	_, err = stream.Collect(fold.Train)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fold 0")

	_, err = p.Sizes()
	assert.ErrorIs(t, err, boom)
}
