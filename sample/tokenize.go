package sample

import (
	"unicode"
	"unicode/utf8"
)

// WhitespaceTokenize splits text at runs of Unicode white space.
func WhitespaceTokenize(text string) []string {
	return spansToStrings(WhitespaceTokenizePos(text, false), text)
}

// WhitespaceTokenizeKeepNewLines is like WhitespaceTokenize but emits every
// '\r' and '\n' as a token of its own, so "a\r\nb" yields a, \r, \n, b.
func WhitespaceTokenizeKeepNewLines(text string) []string {
	return spansToStrings(WhitespaceTokenizePos(text, true), text)
}

// WhitespaceTokenizePos returns the token spans of text.
func WhitespaceTokenizePos(text string, keepNewLines bool) []Span {
	spans := []Span{}
	start := -1
	for i, r := range text {
		if !unicode.IsSpace(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, Span{Start: start, End: i})
			start = -1
		}
		if keepNewLines && (r == '\n' || r == '\r') {
			spans = append(spans, Span{Start: i, End: i + utf8.RuneLen(r)})
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

func spansToStrings(spans []Span, text string) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = text[s.Start:s.End]
	}
	return out
}
