package eval

import (
	"slices"

	"github.com/YuminosukeSato/seqlearn/metrics"
	"github.com/YuminosukeSato/seqlearn/sample"
)

// SentenceScorer scores detected sentence boundaries by exact span match.
func SentenceScorer(acc *metrics.FMeasure, reference, predicted sample.SentenceSample) bool {
	acc.UpdateScores(reference.Sentences, predicted.Sentences)
	return slices.Equal(reference.Sentences, predicted.Sentences)
}

// TokenScorer scores token boundaries by exact span match.
func TokenScorer(acc *metrics.FMeasure, reference, predicted sample.TokenSample) bool {
	acc.UpdateScores(reference.Tokens, predicted.Tokens)
	return slices.Equal(reference.Tokens, predicted.Tokens)
}

// ChunkScorer scores typed phrases derived from the BIO chunk labels.
func ChunkScorer(acc *metrics.FMeasure, reference, predicted sample.ChunkSample) bool {
	refPhrases := reference.PhrasesAsSpans()
	predPhrases := predicted.PhrasesAsSpans()
	acc.UpdateScores(refPhrases, predPhrases)
	return slices.Equal(refPhrases, predPhrases)
}

// TagAccuracyScorer counts correctly tagged tokens (word accuracy).
func TagAccuracyScorer(acc *metrics.Accuracy, reference, predicted sample.POSSample) bool {
	return addLabelAccuracy(acc, reference.Tags, predicted.Tags)
}

// LemmaAccuracyScorer counts correctly lemmatized tokens.
func LemmaAccuracyScorer(acc *metrics.Accuracy, reference, predicted sample.LemmaSample) bool {
	return addLabelAccuracy(acc, reference.Lemmas, predicted.Lemmas)
}

// addLabelAccuracy compares labels position by position. Missing predicted
// labels count as errors; surplus ones are ignored.
func addLabelAccuracy(acc *metrics.Accuracy, reference, predicted []string) bool {
	correct := 0
	for i, ref := range reference {
		if i < len(predicted) && predicted[i] == ref {
			correct++
		}
	}
	acc.AddCounts(correct, len(reference))
	return correct == len(reference) && len(predicted) == len(reference)
}

// TagReportScorer records every token's tag per label, so a cross-validation
// can aggregate a per-label breakdown. Missing predicted tags count as "".
func TagReportScorer(acc *metrics.LabelReport, reference, predicted sample.POSSample) bool {
	correct := len(reference.Tags) == len(predicted.Tags)
	for i, tag := range reference.Tags {
		pred := ""
		if i < len(predicted.Tags) {
			pred = predicted.Tags[i]
		}
		acc.Add(tag, pred)
		correct = correct && pred == tag
	}
	return correct
}
