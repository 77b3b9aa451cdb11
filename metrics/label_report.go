package metrics

import (
	"fmt"
	"strings"

	"github.com/google/btree"
)

const labelTreeDegree = 8

// LabelStats holds the per-label counts of a LabelReport.
type LabelStats struct {
	Label         string
	TruePositive  int64
	FalsePositive int64
	FalseNegative int64
}

// Less orders stats by label.
func (s *LabelStats) Less(than btree.Item) bool {
	return s.Label < than.(*LabelStats).Label
}

// Precision returns TP / (TP + FP), or 0 when the label was never predicted.
func (s LabelStats) Precision() float64 {
	if d := s.TruePositive + s.FalsePositive; d > 0 {
		return float64(s.TruePositive) / float64(d)
	}
	return 0
}

// Recall returns TP / (TP + FN), or 0 when the label never occurred.
func (s LabelStats) Recall() float64 {
	if d := s.TruePositive + s.FalseNegative; d > 0 {
		return float64(s.TruePositive) / float64(d)
	}
	return 0
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are 0.
func (s LabelStats) F1() float64 {
	p, r := s.Precision(), s.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// LabelReport counts true positives, false positives and false negatives per
// label, kept in label order.
type LabelReport struct {
	tree *btree.BTree
}

// NewLabelReport creates an empty report.
func NewLabelReport() *LabelReport {
	return &LabelReport{tree: btree.New(labelTreeDegree)}
}

func (r *LabelReport) stats(label string) *LabelStats {
	if item := r.tree.Get(&LabelStats{Label: label}); item != nil {
		return item.(*LabelStats)
	}
	s := &LabelStats{Label: label}
	r.tree.ReplaceOrInsert(s)
	return s
}

// Add records one reference label and the predicted label for it.
func (r *LabelReport) Add(reference, predicted string) {
	if reference == predicted {
		r.stats(reference).TruePositive++
		return
	}
	r.stats(predicted).FalsePositive++
	r.stats(reference).FalseNegative++
}

// Merge adds the counts of other.
func (r *LabelReport) Merge(other *LabelReport) {
	if other == nil {
		return
	}
	other.tree.Ascend(func(i btree.Item) bool {
		o := i.(*LabelStats)
		s := r.stats(o.Label)
		s.TruePositive += o.TruePositive
		s.FalsePositive += o.FalsePositive
		s.FalseNegative += o.FalseNegative
		return true
	})
}

// Labels returns every label seen, in sorted order.
func (r *LabelReport) Labels() []string {
	labels := make([]string, 0, r.tree.Len())
	r.tree.Ascend(func(i btree.Item) bool {
		labels = append(labels, i.(*LabelStats).Label)
		return true
	})
	return labels
}

// Stats returns a copy of the counts for label.
func (r *LabelReport) Stats(label string) (LabelStats, bool) {
	item := r.tree.Get(&LabelStats{Label: label})
	if item == nil {
		return LabelStats{}, false
	}
	return *item.(*LabelStats), true
}

// Value returns the micro-averaged F1 over all labels. With exactly one
// prediction per reference this equals the accuracy.
func (r *LabelReport) Value() float64 {
	var tp, fp, fn int64
	r.tree.Ascend(func(i btree.Item) bool {
		s := i.(*LabelStats)
		tp += s.TruePositive
		fp += s.FalsePositive
		fn += s.FalseNegative
		return true
	})
	return LabelStats{TruePositive: tp, FalsePositive: fp, FalseNegative: fn}.F1()
}

// String renders one line per label with precision, recall and F1.
func (r *LabelReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %9s %9s %9s %6s %6s %6s\n", "Label", "Precision", "Recall", "F1", "TP", "FP", "FN")
	r.tree.Ascend(func(i btree.Item) bool {
		s := i.(*LabelStats)
		fmt.Fprintf(&b, "%-12s %9.4f %9.4f %9.4f %6d %6d %6d\n",
			s.Label, s.Precision(), s.Recall(), s.F1(), s.TruePositive, s.FalsePositive, s.FalseNegative)
		return true
	})
	return b.String()
}
