// Package seqlearn evaluates sequence-labeling and segmentation models with
// k-fold cross-validation over lazily read sample streams.
//
// The library runs the folds of a cross-validation either one after another
// or on a bounded pool of workers, and merges per-fold metric accumulators
// into an aggregate that does not depend on the number of workers.
//
// # Installation
//
//	go get github.com/YuminosukeSato/seqlearn
//
// # Quick Start
//
// Ten-fold word accuracy of the naive-Bayes tagger on a file of word_tag
// sentences:
//
//	lines := stream.Lines(func() (io.ReadCloser, error) { return os.Open("train.pos") })
//	samples := stream.Map(lines, sample.ParsePOSSample)
//	defer samples.Close()
//
//	reg := model.NewRegistry[sample.POSSample]()
//	if err := naivebayes.Register(reg); err != nil {
//	    log.Fatal(err)
//	}
//
//	p := params.New(map[string]string{
//	    params.AlgorithmKey: params.AlgorithmNaiveBayes,
//	    params.ThreadsKey:   "4",
//	})
//	cv, err := crossval.NewFromRegistry(reg, p, metrics.NewAccuracy, eval.TagAccuracyScorer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := cv.Evaluate(ctx, samples, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result)
//
// # Packages
//
//   - core/arraymath: numeric kernel (norms, log-sum-exp, argmax, softmax)
//   - core/stream: resettable sample streams and their combinators
//   - core/params: training parameters with YAML loading
//   - core/model: trainer and model contracts, algorithm registry
//   - core/parallel: bounded fail-fast worker pool
//   - sample: sentence, token, POS, lemma and chunk samples with binary codecs
//   - metrics: mergeable F-measure, accuracy and per-label accumulators
//   - eval: single-model evaluator, scorers and monitors
//   - crossval: fold partitioner and cross-validator
//   - naivebayes: naive-Bayes POS tagger
//   - report: SQLite run store and fold score charts
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Reproducibility
//
// Fold membership is fixed by stream position: the sample at position i is
// held out by fold i mod k. With a deterministic trainer the aggregate counts
// are identical for every worker count.
package seqlearn
