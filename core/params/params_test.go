package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

func TestDefaults(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Validate())

	assert.Equal(t, AlgorithmMaxent, p.Algorithm())
	assert.Equal(t, TrainerTypeEvent, p.TrainerType())

	iterations, err := p.Iterations()
	require.NoError(t, err)
	assert.Equal(t, 100, iterations)

	cutoff, err := p.Cutoff()
	require.NoError(t, err)
	assert.Equal(t, 5, cutoff)

	threads, err := p.Threads()
	require.NoError(t, err)
	assert.Equal(t, 1, threads)
}

func TestSetIsCopyOnWrite(t *testing.T) {
	base := Defaults()
	changed := base.Set(ThreadsKey, "4")

	threads, err := changed.Threads()
	require.NoError(t, err)
	assert.Equal(t, 4, threads)

	threads, err = base.Threads()
	require.NoError(t, err)
	assert.Equal(t, 1, threads)
}

func TestThreadsAuto(t *testing.T) {
	p := New(map[string]string{ThreadsKey: "auto"})
	threads, err := p.Threads()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, threads, 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		param  string
	}{
		{"unknown algorithm", map[string]string{AlgorithmKey: "GIS2"}, AlgorithmKey},
		{"bad trainer type", map[string]string{TrainerTypeKey: "Batch"}, TrainerTypeKey},
		{"zero iterations", map[string]string{IterationsKey: "0"}, IterationsKey},
		{"non numeric iterations", map[string]string{IterationsKey: "many"}, IterationsKey},
		{"negative cutoff", map[string]string{CutoffKey: "-1"}, CutoffKey},
		{"zero threads", map[string]string{ThreadsKey: "0"}, ThreadsKey},
		{"bad threads", map[string]string{ThreadsKey: "lots"}, ThreadsKey},
		{"bad step size", map[string]string{StepSizeKey: "fast"}, StepSizeKey},
		{"bad max evaluations", map[string]string{MaxFctEvalKey: "1.5"}, MaxFctEvalKey},
		{"bad averaging flag", map[string]string{UseSkippedAveragingKey: "sometimes"}, UseSkippedAveragingKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.values).Validate()
			require.Error(t, err)
			var validationErr *errors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.param, validationErr.ParamName)
		})
	}

	valid := New(map[string]string{
		AlgorithmKey:           AlgorithmPerceptron,
		TrainerTypeKey:         TrainerTypeSequence,
		StepSizeKey:            "0.5",
		UseSkippedAveragingKey: "true",
		L2CostKey:              "0.1",
		NumOfUpdatesKey:        "15",
	})
	assert.NoError(t, valid.Validate())
}

func TestNamespace(t *testing.T) {
	p := New(map[string]string{
		"pos.Cutoff":     "3",
		"pos.Iterations": "50",
		"chunk.Cutoff":   "1",
	})
	pos := p.Namespace("pos")
	assert.Equal(t, []string{CutoffKey, IterationsKey}, pos.Keys())

	cutoff, err := pos.Cutoff()
	require.NoError(t, err)
	assert.Equal(t, 3, cutoff)

	assert.Empty(t, p.Namespace("lemma").Keys())
}

func TestParse(t *testing.T) {
	data := []byte(`
Algorithm: NAIVEBAYES
Iterations: 150
Threads: auto
PrintMessages: false
pos:
  Cutoff: 3
`)
	p, err := Parse(data)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, AlgorithmNaiveBayes, p.Algorithm())
	iterations, err := p.Iterations()
	require.NoError(t, err)
	assert.Equal(t, 150, iterations)

	cutoff, err := p.Cutoff()
	require.NoError(t, err)
	assert.Equal(t, DefaultCutoff, cutoff, "unset keys keep their defaults")

	v, ok := p.Get("pos.Cutoff")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	_, err = Parse([]byte("Threads: [1, 2]"))
	assert.Error(t, err)
	_, err = Parse([]byte("Algorithm: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Cutoff: 0\nThreads: 2\n"), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	threads, err := p.Threads()
	require.NoError(t, err)
	assert.Equal(t, 2, threads)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	p := New(map[string]string{"Extra": "x"})
	assert.Equal(t, "Algorithm=MAXENT Cutoff=5 Extra=x Iterations=100 Threads=1 TrainerType=Event", p.String())
}
