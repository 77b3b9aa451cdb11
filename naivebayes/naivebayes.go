// Package naivebayes は品詞タグ付けのための多項ナイーブベイズ学習器を提供する。
//
// 各トークンを独立に扱い、log P(tag) + log P(word|tag) が最大のタグを選ぶ。
// 出現回数が Cutoff 未満の単語は未知語バケットにまとめられ、テスト時の未知語と
// 同じ分布で評価される。
package naivebayes

import (
	"context"
	"io"
	"math"
	"sort"

	"github.com/YuminosukeSato/seqlearn/core/model"
	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/core/stream"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
	"github.com/YuminosukeSato/seqlearn/pkg/log"
	"github.com/YuminosukeSato/seqlearn/sample"
)

// UnknownWord is the vocabulary entry shared by rare and unseen words.
const UnknownWord = "<unk>"

// Trainer は NAIVEBAYES アルゴリズムの学習器
//
// Trainer は状態を持たないため、複数のフォールドから同時に呼び出してよい。
type Trainer struct {
	alpha    float64
	fitPrior bool
	logger   log.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithAlpha はラプラス（加算）平滑化のパラメータを設定する。デフォルトは 1.0。
func WithAlpha(alpha float64) Option {
	return func(t *Trainer) {
		t.alpha = alpha
	}
}

// WithFitPrior はタグの事前確率を学習するかどうかを設定する。
// false の場合は一様事前分布を使う。
func WithFitPrior(fit bool) Option {
	return func(t *Trainer) {
		t.fitPrior = fit
	}
}

// WithLogger sets the logger used to report training summaries.
func WithLogger(l log.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrainer は新しい Trainer を作成する
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{alpha: 1.0, fitPrior: true, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(log.ComponentKey, "naivebayes", log.ModelNameKey, "NaiveBayesTagger")
	return t
}

// Register binds a default Trainer to the NAIVEBAYES algorithm in reg.
func Register(reg *model.Registry[sample.POSSample], opts ...Option) error {
	return reg.Register(params.AlgorithmNaiveBayes, NewTrainer(opts...))
}

// Train implements model.Trainer. The stream is read twice: once to count
// word frequencies for the cutoff and once to count tag and word-tag events.
func (t *Trainer) Train(ctx context.Context, samples stream.Stream[sample.POSSample], p *params.TrainingParameters) (model.Model[sample.POSSample], error) {
	if t.alpha <= 0 || math.IsNaN(t.alpha) || math.IsInf(t.alpha, 0) {
		return nil, errors.NewValidationError("alpha", "must be a positive finite number", t.alpha)
	}
	if p == nil {
		p = params.Defaults()
	}
	cutoff, err := p.Cutoff()
	if err != nil {
		return nil, err
	}

	wordFreq := make(map[string]int)
	if err := forEach(ctx, samples, func(s sample.POSSample) {
		for _, w := range s.Tokens {
			wordFreq[w]++
		}
	}); err != nil {
		return nil, err
	}

	var (
		nSamples  int
		tagCount  = make(map[string]int)
		wordCount = make(map[string]map[string]int)
	)
	if err := forEach(ctx, samples, func(s sample.POSSample) {
		nSamples++
		for i, w := range s.Tokens {
			if wordFreq[w] < cutoff {
				w = UnknownWord
			}
			tag := s.Tags[i]
			tagCount[tag]++
			if wordCount[w] == nil {
				wordCount[w] = make(map[string]int)
			}
			wordCount[w][tag]++
		}
	}); err != nil {
		return nil, err
	}
	if len(tagCount) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "naivebayes: no tagged tokens in training data")
	}

	m := t.estimate(tagCount, wordCount)
	if err := errors.CheckNumericalStability("naivebayes.Train", m.classLogPrior); err != nil {
		return nil, err
	}
	if err := errors.CheckNumericalStability("naivebayes.Train", m.featureLogProb[UnknownWord]); err != nil {
		return nil, err
	}
	m.state.SetFitted(len(m.tags), nSamples)
	t.logger.Debug("model trained",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, nSamples,
		"model.tags", len(m.tags),
		"model.vocabulary", len(m.featureLogProb),
	)
	return m, nil
}

// estimate turns event counts into smoothed log probabilities.
func (t *Trainer) estimate(tagCount map[string]int, wordCount map[string]map[string]int) *Tagger {
	tags := make([]string, 0, len(tagCount))
	total := 0
	for tag, n := range tagCount {
		tags = append(tags, tag)
		total += n
	}
	sort.Strings(tags)

	// the unknown bucket always takes part in the vocabulary
	vocab := len(wordCount)
	if _, ok := wordCount[UnknownWord]; !ok {
		vocab++
	}

	m := &Tagger{
		state:          model.NewStateManager(),
		tags:           tags,
		classLogPrior:  make([]float64, len(tags)),
		featureLogProb: make(map[string][]float64, len(wordCount)+1),
	}
	denom := make([]float64, len(tags))
	for i, tag := range tags {
		if t.fitPrior {
			m.classLogPrior[i] = math.Log(float64(tagCount[tag]) / float64(total))
		} else {
			m.classLogPrior[i] = -math.Log(float64(len(tags)))
		}
		denom[i] = math.Log(float64(tagCount[tag]) + t.alpha*float64(vocab))
	}
	logProb := func(counts map[string]int) []float64 {
		lp := make([]float64, len(tags))
		for i, tag := range tags {
			lp[i] = math.Log(float64(counts[tag])+t.alpha) - denom[i]
		}
		return lp
	}
	for w, counts := range wordCount {
		m.featureLogProb[w] = logProb(counts)
	}
	if _, ok := m.featureLogProb[UnknownWord]; !ok {
		m.featureLogProb[UnknownWord] = logProb(nil)
	}
	return m
}

// forEach resets samples and calls fn for every sample, checking ctx between
// samples.
func forEach(ctx context.Context, samples stream.Stream[sample.POSSample], fn func(sample.POSSample)) error {
	if err := samples.Reset(); err != nil {
		return err
	}
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := samples.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read sample %d", n)
		}
		if len(s.Tags) != len(s.Tokens) {
			return errors.NewValidationError("tags", "sample has a different number of tags and tokens", n)
		}
		fn(s)
	}
}
