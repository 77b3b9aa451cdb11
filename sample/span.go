// Package sample defines the labeled instances used for training and
// evaluation: sentences, tokens, POS tags, lemmas and chunks.
//
// Samples are immutable values. Constructors validate their invariants and
// every type has an explicit, versioned binary codec.
//
// Span offsets are byte offsets into the UTF-8 text they refer to.
package sample

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Span is the half-open interval [Start, End) with an optional type.
type Span struct {
	Start int
	End   int
	Type  string
}

// NewSpan creates a span, rejecting negative offsets and empty or inverted
// intervals (end <= start).
func NewSpan(start, end int, typ string) (Span, error) {
	if start < 0 {
		return Span{}, errors.NewValidationError("start", "must not be negative", start)
	}
	if end <= start {
		return Span{}, errors.NewValidationError("end", fmt.Sprintf("must be greater than start %d", start), end)
	}
	return Span{Start: start, End: end, Type: typ}, nil
}

// MustSpan is like NewSpan but panics on invalid offsets. It is meant for
// literals in tests and examples.
func MustSpan(start, end int, typ string) Span {
	s, err := NewSpan(start, end, typ)
	if err != nil {
		panic(err)
	}
	return s
}

// Length returns End - Start.
func (s Span) Length() int {
	return s.End - s.Start
}

// CoveredText returns the part of text covered by the span.
func (s Span) CoveredText(text string) (string, error) {
	if s.Start < 0 || s.End < s.Start {
		return "", errors.NewValueError("Span.CoveredText", fmt.Sprintf("invalid span %s", s))
	}
	if s.End > len(text) {
		return "", errors.NewValueError("Span.CoveredText",
			fmt.Sprintf("span %s exceeds text of length %d", s, len(text)))
	}
	return text[s.Start:s.End], nil
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// ContainsIndex reports whether index lies within s.
func (s Span) ContainsIndex(index int) bool {
	return s.Start <= index && index < s.End
}

// Intersects reports whether s and o share at least one position or one
// contains the other.
func (s Span) Intersects(o Span) bool {
	return s.Contains(o) || o.Contains(s) ||
		(s.Start <= o.Start && o.Start < s.End) ||
		(o.Start <= s.Start && s.Start < o.End)
}

// Crosses reports whether s and o overlap without one containing the other.
func (s Span) Crosses(o Span) bool {
	return !s.Contains(o) && !o.Contains(s) &&
		((s.Start <= o.Start && o.Start < s.End) ||
			(o.Start <= s.Start && s.Start < o.End))
}

// Equal reports whether both offsets and types match.
func (s Span) Equal(o Span) bool {
	return s == o
}

// Compare orders spans by start, then end, then type.
func (s Span) Compare(o Span) int {
	switch {
	case s.Start != o.Start:
		return cmpInt(s.Start, o.Start)
	case s.End != o.End:
		return cmpInt(s.End, o.End)
	default:
		return strings.Compare(s.Type, o.Type)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

// String renders the span as "[start..end)" followed by its type if any.
func (s Span) String() string {
	if s.Type == "" {
		return fmt.Sprintf("[%d..%d)", s.Start, s.End)
	}
	return fmt.Sprintf("[%d..%d) %s", s.Start, s.End, s.Type)
}

// SortSpans sorts spans in place by Compare.
func SortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Compare(spans[j]) < 0 })
}

// ValidateSegmentation checks that spans are non-empty, strictly increasing
// and do not overlap.
func ValidateSegmentation(spans []Span) error {
	for i, s := range spans {
		if s.Start < 0 || s.End <= s.Start {
			return errors.NewValidationError("spans", fmt.Sprintf("invalid span %s at %d", s, i), s)
		}
		if i > 0 && s.Start < spans[i-1].End {
			return errors.NewValidationError("spans",
				fmt.Sprintf("span %s at %d overlaps or precedes %s", s, i, spans[i-1]), s)
		}
	}
	return nil
}

// CoveredTexts returns the text covered by each span.
func CoveredTexts(spans []Span, text string) ([]string, error) {
	out := make([]string, len(spans))
	for i, s := range spans {
		covered, err := s.CoveredText(text)
		if err != nil {
			return nil, err
		}
		out[i] = covered
	}
	return out, nil
}

func checkWithin(spans []Span, text, field string) error {
	if err := ValidateSegmentation(spans); err != nil {
		return errors.Wrapf(err, "%s", field)
	}
	if n := len(spans); n > 0 && spans[n-1].End > len(text) {
		return errors.NewValidationError(field, fmt.Sprintf("span exceeds text of length %d", len(text)), spans[n-1])
	}
	return nil
}
