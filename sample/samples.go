package sample

import (
	"fmt"
	"slices"
	"strings"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// SentenceSample is a document with its sentence boundaries.
type SentenceSample struct {
	Document  string
	Sentences []Span
}

// NewSentenceSample validates that the sentence spans segment document.
func NewSentenceSample(document string, sentences []Span) (SentenceSample, error) {
	if err := checkWithin(sentences, document, "sentences"); err != nil {
		return SentenceSample{}, err
	}
	return SentenceSample{Document: document, Sentences: slices.Clone(sentences)}, nil
}

// SentenceStrings returns the text of every sentence.
func (s SentenceSample) SentenceStrings() []string {
	return spansToStrings(s.Sentences, s.Document)
}

// Equal reports value equality.
func (s SentenceSample) Equal(o SentenceSample) bool {
	return s.Document == o.Document && slices.Equal(s.Sentences, o.Sentences)
}

// String renders one sentence per line.
func (s SentenceSample) String() string {
	return strings.Join(s.SentenceStrings(), "\n")
}

// TokenSplitTag marks a token boundary that is not white space in the
// one-line token sample format.
const TokenSplitTag = "<SPLIT>"

// TokenSample is a text with its token boundaries.
type TokenSample struct {
	Text   string
	Tokens []Span
}

// NewTokenSample validates that the token spans segment text.
func NewTokenSample(text string, tokens []Span) (TokenSample, error) {
	if err := checkWithin(tokens, text, "tokens"); err != nil {
		return TokenSample{}, err
	}
	return TokenSample{Text: text, Tokens: slices.Clone(tokens)}, nil
}

// TokenStrings returns the text of every token.
func (s TokenSample) TokenStrings() []string {
	return spansToStrings(s.Tokens, s.Text)
}

// Equal reports value equality.
func (s TokenSample) Equal(o TokenSample) bool {
	return s.Text == o.Text && slices.Equal(s.Tokens, o.Tokens)
}

// String renders the sample in the one-line format: tokens separated by
// white space are written as is, adjacent tokens are joined by <SPLIT>.
func (s TokenSample) String() string {
	var b strings.Builder
	last := 0
	for i, tok := range s.Tokens {
		if i > 0 {
			if tok.Start == s.Tokens[i-1].End {
				b.WriteString(TokenSplitTag)
			} else {
				b.WriteString(s.Text[last:tok.Start])
			}
		} else {
			b.WriteString(s.Text[:tok.Start])
		}
		b.WriteString(s.Text[tok.Start:tok.End])
		last = tok.End
	}
	b.WriteString(s.Text[last:])
	return b.String()
}

// ParseTokenSample reads the one-line format written by TokenSample.String.
// White space separates tokens and <SPLIT> separates adjacent tokens.
func ParseTokenSample(line string) (TokenSample, error) {
	var (
		text   strings.Builder
		tokens []Span
	)
	for i, chunk := range WhitespaceTokenize(line) {
		if i > 0 {
			text.WriteByte(' ')
		}
		for _, part := range strings.Split(chunk, TokenSplitTag) {
			if part == "" {
				continue
			}
			start := text.Len()
			text.WriteString(part)
			tokens = append(tokens, Span{Start: start, End: text.Len()})
		}
	}
	return NewTokenSample(text.String(), tokens)
}

// POSSample is a sentence of tokens with one part-of-speech tag per token.
type POSSample struct {
	Tokens []string
	Tags   []string
}

// NewPOSSample fails when tokens and tags differ in length.
func NewPOSSample(tokens, tags []string) (POSSample, error) {
	if len(tokens) != len(tags) {
		return POSSample{}, errors.NewValidationError("tags",
			fmt.Sprintf("expected %d tags for %d tokens", len(tokens), len(tokens)), len(tags))
	}
	return POSSample{Tokens: slices.Clone(tokens), Tags: slices.Clone(tags)}, nil
}

// Equal reports value equality.
func (s POSSample) Equal(o POSSample) bool {
	return slices.Equal(s.Tokens, o.Tokens) && slices.Equal(s.Tags, o.Tags)
}

// String renders the sample as space separated token_tag pairs.
func (s POSSample) String() string {
	parts := make([]string, len(s.Tokens))
	for i := range s.Tokens {
		parts[i] = s.Tokens[i] + "_" + s.Tags[i]
	}
	return strings.Join(parts, " ")
}

// ParsePOSSample reads the token_tag format written by POSSample.String. The
// tag is everything after the last underscore.
func ParsePOSSample(line string) (POSSample, error) {
	pairs := WhitespaceTokenize(line)
	tokens := make([]string, len(pairs))
	tags := make([]string, len(pairs))
	for i, pair := range pairs {
		sep := strings.LastIndexByte(pair, '_')
		if sep <= 0 || sep == len(pair)-1 {
			return POSSample{}, errors.NewValueError("ParsePOSSample",
				fmt.Sprintf("token %d %q is not in token_tag form", i, pair))
		}
		tokens[i], tags[i] = pair[:sep], pair[sep+1:]
	}
	return NewPOSSample(tokens, tags)
}

// LemmaSample is a tagged sentence with one lemma per token.
type LemmaSample struct {
	Tokens []string
	Tags   []string
	Lemmas []string
}

// NewLemmaSample fails unless tokens, tags and lemmas have the same length.
func NewLemmaSample(tokens, tags, lemmas []string) (LemmaSample, error) {
	if len(tokens) != len(tags) {
		return LemmaSample{}, errors.NewValidationError("tags",
			fmt.Sprintf("expected %d tags", len(tokens)), len(tags))
	}
	if len(tokens) != len(lemmas) {
		return LemmaSample{}, errors.NewValidationError("lemmas",
			fmt.Sprintf("expected %d lemmas", len(tokens)), len(lemmas))
	}
	return LemmaSample{
		Tokens: slices.Clone(tokens),
		Tags:   slices.Clone(tags),
		Lemmas: slices.Clone(lemmas),
	}, nil
}

// Equal reports value equality.
func (s LemmaSample) Equal(o LemmaSample) bool {
	return slices.Equal(s.Tokens, o.Tokens) &&
		slices.Equal(s.Tags, o.Tags) &&
		slices.Equal(s.Lemmas, o.Lemmas)
}

// String renders one "token\ttag\tlemma" line per token.
func (s LemmaSample) String() string {
	var b strings.Builder
	for i := range s.Tokens {
		b.WriteString(s.Tokens[i])
		b.WriteByte('\t')
		b.WriteString(s.Tags[i])
		b.WriteByte('\t')
		b.WriteString(s.Lemmas[i])
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseLemmaSample reads the format written by LemmaSample.String. Empty
// lines are ignored.
func ParseLemmaSample(block string) (LemmaSample, error) {
	var tokens, tags, lemmas []string
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 3 {
			return LemmaSample{}, errors.NewValueError("ParseLemmaSample",
				fmt.Sprintf("line %d has %d columns, expected 3", i+1, len(cols)))
		}
		tokens = append(tokens, cols[0])
		tags = append(tags, cols[1])
		lemmas = append(lemmas, cols[2])
	}
	return NewLemmaSample(tokens, tags, lemmas)
}

// Chunk labels in BIO notation.
const (
	ChunkBegin   = "B-"
	ChunkInside  = "I-"
	ChunkOutside = "O"
)

// ChunkSample is a POS tagged sentence with one BIO chunk label per token.
type ChunkSample struct {
	Tokens []string
	Tags   []string
	Preds  []string
}

// NewChunkSample fails unless tokens, tags and chunk labels have the same length.
func NewChunkSample(tokens, tags, preds []string) (ChunkSample, error) {
	if len(tokens) != len(tags) || len(tokens) != len(preds) {
		return ChunkSample{}, errors.NewValidationError("preds",
			fmt.Sprintf("tokens, tags and chunk labels differ in length (%d, %d, %d)",
				len(tokens), len(tags), len(preds)), len(preds))
	}
	return ChunkSample{
		Tokens: slices.Clone(tokens),
		Tags:   slices.Clone(tags),
		Preds:  slices.Clone(preds),
	}, nil
}

// Equal reports value equality.
func (s ChunkSample) Equal(o ChunkSample) bool {
	return slices.Equal(s.Tokens, o.Tokens) &&
		slices.Equal(s.Tags, o.Tags) &&
		slices.Equal(s.Preds, o.Preds)
}

// PhrasesAsSpans converts the chunk labels into typed token spans.
func (s ChunkSample) PhrasesAsSpans() []Span {
	return PhrasesAsSpans(s.Preds)
}

// PhrasesAsSpans converts BIO labels into spans over token indices. An I-
// label that does not continue the open phrase starts a new one.
func PhrasesAsSpans(preds []string) []Span {
	var (
		phrases []Span
		open    bool
		start   int
		typ     string
	)
	for i, pred := range preds {
		switch {
		case strings.HasPrefix(pred, ChunkBegin) ||
			(pred != ChunkOutside && pred != ChunkInside+typ):
			if open {
				phrases = append(phrases, Span{Start: start, End: i, Type: typ})
			}
			open, start = true, i
			typ = strings.TrimPrefix(strings.TrimPrefix(pred, ChunkBegin), ChunkInside)
		case pred == ChunkInside+typ:
		default:
			if open {
				phrases = append(phrases, Span{Start: start, End: i, Type: typ})
			}
			open, typ = false, ""
		}
	}
	if open {
		phrases = append(phrases, Span{Start: start, End: len(preds), Type: typ})
	}
	return phrases
}

// String renders one "token tag label" line per token.
func (s ChunkSample) String() string {
	var b strings.Builder
	for i := range s.Tokens {
		fmt.Fprintf(&b, "%s %s %s\n", s.Tokens[i], s.Tags[i], s.Preds[i])
	}
	return b.String()
}

// ParseChunkSample reads the three column format written by ChunkSample.String.
func ParseChunkSample(block string) (ChunkSample, error) {
	var tokens, tags, preds []string
	for i, line := range strings.Split(block, "\n") {
		cols := WhitespaceTokenize(line)
		if len(cols) == 0 {
			continue
		}
		if len(cols) != 3 {
			return ChunkSample{}, errors.NewValueError("ParseChunkSample",
				fmt.Sprintf("line %d has %d columns, expected 3", i+1, len(cols)))
		}
		tokens = append(tokens, cols[0])
		tags = append(tags, cols[1])
		preds = append(preds, cols[2])
	}
	return NewChunkSample(tokens, tags, preds)
}
