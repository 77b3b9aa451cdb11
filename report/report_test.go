package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/crossval"
	"github.com/YuminosukeSato/seqlearn/metrics"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

func fixtureResult() *crossval.Result[*metrics.Accuracy] {
	return &crossval.Result[*metrics.Accuracy]{
		K:       3,
		Workers: 2,
		Metric:  &metrics.Accuracy{Correct: 7, Total: 10},
		Folds: []crossval.FoldResult[*metrics.Accuracy]{
			{Index: 0, TrainSamples: 6, TestSamples: 4, Metric: &metrics.Accuracy{Correct: 2, Total: 4}, TrainTime: 3 * time.Millisecond, EvalTime: time.Millisecond},
			{Index: 1, TrainSamples: 7, TestSamples: 3, Metric: &metrics.Accuracy{Correct: 3, Total: 3}},
			{Index: 2, TrainSamples: 7, TestSamples: 3, Metric: &metrics.Accuracy{Correct: 2, Total: 3}},
		},
		Elapsed: 25 * time.Millisecond,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	p := params.New(map[string]string{params.AlgorithmKey: params.AlgorithmNaiveBayes, params.ThreadsKey: "2"})
	res := fixtureResult()
	id, err := SaveRun(ctx, store, "pos-baseline", p, res)
	require.NoError(t, err)
	_, err = SaveRun(ctx, store, "defaults", nil, res)
	require.NoError(t, err)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "pos-baseline", r.Name)
	assert.Equal(t, params.AlgorithmNaiveBayes, r.Algorithm)
	assert.Equal(t, p.String(), r.Params)
	assert.Equal(t, 3, r.K)
	assert.Equal(t, 2, r.Workers)
	assert.InDelta(t, 0.7, r.Score, 1e-12)
	assert.InDelta(t, res.MeanScore(), r.MeanScore, 1e-12)
	assert.InDelta(t, res.StdScore(), r.StdScore, 1e-12)
	assert.Equal(t, 25*time.Millisecond, r.Elapsed)
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, params.AlgorithmMaxent, runs[1].Algorithm)

	folds, err := store.Folds(ctx, id)
	require.NoError(t, err)
	require.Len(t, folds, 3)
	assert.Equal(t, FoldRecord{
		RunID: id, Fold: 0, TrainSamples: 6, TestSamples: 4, Score: 0.5,
		TrainTime: 3 * time.Millisecond, EvalTime: time.Millisecond,
	}, folds[0])
	assert.Equal(t, 1.0, folds[1].Score)

	require.NoError(t, store.DeleteRun(ctx, id))
	folds, err = store.Folds(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, folds)
	runs, err = store.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	err = store.DeleteRun(ctx, id)
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = SaveRun[*metrics.Accuracy](context.Background(), store, "nil", nil, nil)
	assert.Error(t, err)

	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPlotFolds(t *testing.T) {
	dir := t.TempDir()
	scores := fixtureResult().Scores()

	for _, name := range []string{"folds.png", "folds.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, PlotFolds("accuracy per fold", scores, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, PlotFolds("empty", nil, filepath.Join(dir, "empty.png")))
	assert.Error(t, PlotFolds("bad", scores, filepath.Join(dir, "folds.txt")))
}
