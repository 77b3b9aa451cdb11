package naivebayes

import (
	"slices"

	"github.com/YuminosukeSato/seqlearn/core/arraymath"
	"github.com/YuminosukeSato/seqlearn/core/model"
	"github.com/YuminosukeSato/seqlearn/sample"
)

// Tagger は学習済みのナイーブベイズ品詞タガー
//
// 学習後は読み取り専用なので、複数のゴルーチンから同時に Predict してよい。
type Tagger struct {
	state *model.StateManager

	tags           []string
	classLogPrior  []float64
	featureLogProb map[string][]float64
}

// Classes returns the known tags in sorted order.
func (m *Tagger) Classes() []string {
	return slices.Clone(m.tags)
}

// NSamplesSeen returns the number of training samples.
func (m *Tagger) NSamplesSeen() int {
	_, n := m.state.Dimensions()
	return n
}

// IsFitted reports whether the tagger was produced by training.
func (m *Tagger) IsFitted() bool {
	return m.state != nil && m.state.IsFitted()
}

// Predict implements model.Model. The reference tags are ignored; the
// returned sample carries the predicted tag of every token.
func (m *Tagger) Predict(s sample.POSSample) (sample.POSSample, error) {
	if err := m.requireFitted("Predict"); err != nil {
		return sample.POSSample{}, err
	}
	tags := make([]string, len(s.Tokens))
	scores := make([]float64, len(m.tags))
	for i, w := range s.Tokens {
		m.jointLogLikelihood(scores, w)
		best, err := arraymath.Argmax(scores)
		if err != nil {
			return sample.POSSample{}, err
		}
		tags[i] = m.tags[best]
	}
	return sample.NewPOSSample(s.Tokens, tags)
}

// PredictLogProba returns the log posterior of every tag for word, in the
// order of Classes.
func (m *Tagger) PredictLogProba(word string) ([]float64, error) {
	if err := m.requireFitted("PredictLogProba"); err != nil {
		return nil, err
	}
	scores := make([]float64, len(m.tags))
	m.jointLogLikelihood(scores, word)
	norm := arraymath.LogSumOfExps(scores)
	for i := range scores {
		scores[i] -= norm
	}
	return scores, nil
}

// PredictProba returns the posterior of every tag for word, in the order of
// Classes.
func (m *Tagger) PredictProba(word string) ([]float64, error) {
	if err := m.requireFitted("PredictProba"); err != nil {
		return nil, err
	}
	scores := make([]float64, len(m.tags))
	m.jointLogLikelihood(scores, word)
	return arraymath.Softmax(scores, scores)
}

func (m *Tagger) jointLogLikelihood(dst []float64, word string) {
	lp, ok := m.featureLogProb[word]
	if !ok {
		lp = m.featureLogProb[UnknownWord]
	}
	for i := range dst {
		dst[i] = m.classLogPrior[i] + lp[i]
	}
}

func (m *Tagger) requireFitted(method string) error {
	if m.state == nil {
		return model.NewStateManager().RequireFitted("NaiveBayesTagger", method)
	}
	return m.state.RequireFitted("NaiveBayesTagger", method)
}
