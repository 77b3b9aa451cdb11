package eval

import (
	"sync"

	"github.com/YuminosukeSato/seqlearn/metrics"
	"github.com/YuminosukeSato/seqlearn/sample"
)

// Misclassification pairs a reference with the wrong prediction made for it.
type Misclassification[T any] struct {
	Reference T
	Predicted T
}

// MisclassifiedCollector keeps the first Limit misclassified samples and
// counts all of them. It may be shared by the evaluators of several folds.
type MisclassifiedCollector[T any] struct {
	mu      sync.Mutex
	limit   int
	items   []Misclassification[T]
	correct int
	wrong   int
}

// NewMisclassifiedCollector keeps at most limit samples; limit <= 0 keeps none.
func NewMisclassifiedCollector[T any](limit int) *MisclassifiedCollector[T] {
	return &MisclassifiedCollector[T]{limit: limit}
}

// CorrectlyClassified implements Monitor.
func (c *MisclassifiedCollector[T]) CorrectlyClassified(_, _ T) {
	c.mu.Lock()
	c.correct++
	c.mu.Unlock()
}

// Misclassified implements Monitor.
func (c *MisclassifiedCollector[T]) Misclassified(reference, predicted T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrong++
	if len(c.items) < c.limit {
		c.items = append(c.items, Misclassification[T]{Reference: reference, Predicted: predicted})
	}
}

// Items returns a copy of the collected samples.
func (c *MisclassifiedCollector[T]) Items() []Misclassification[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Misclassification[T](nil), c.items...)
}

// Counts returns the number of correctly and wrongly classified samples seen.
func (c *MisclassifiedCollector[T]) Counts() (correct, wrong int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.correct, c.wrong
}

// LabelMonitor feeds every token's reference and predicted tag into a
// per-label report.
type LabelMonitor struct {
	mu     sync.Mutex
	report *metrics.LabelReport
}

// NewLabelMonitor creates a monitor writing into report.
func NewLabelMonitor(report *metrics.LabelReport) *LabelMonitor {
	return &LabelMonitor{report: report}
}

// CorrectlyClassified implements Monitor.
func (m *LabelMonitor) CorrectlyClassified(reference, predicted sample.POSSample) {
	m.add(reference, predicted)
}

// Misclassified implements Monitor.
func (m *LabelMonitor) Misclassified(reference, predicted sample.POSSample) {
	m.add(reference, predicted)
}

func (m *LabelMonitor) add(reference, predicted sample.POSSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tag := range reference.Tags {
		pred := ""
		if i < len(predicted.Tags) {
			pred = predicted.Tags[i]
		}
		m.report.Add(tag, pred)
	}
}
