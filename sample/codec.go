package sample

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// codecVersion is written as the first byte of every encoded sample.
const codecVersion byte = 1

// sample kinds, written after the version byte
const (
	kindSentence byte = iota + 1
	kindToken
	kindPOS
	kindLemma
	kindChunk
)

type encoder struct {
	buf []byte
}

func newEncoder(kind byte) *encoder {
	return &encoder{buf: []byte{codecVersion, kind}}
}

func (e *encoder) uvarint(v int) {
	e.buf = binary.AppendUvarint(e.buf, uint64(v))
}

func (e *encoder) str(s string) {
	e.uvarint(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) strs(ss []string) {
	e.uvarint(len(ss))
	for _, s := range ss {
		e.str(s)
	}
}

func (e *encoder) spans(spans []Span) {
	e.uvarint(len(spans))
	for _, s := range spans {
		e.uvarint(s.Start)
		e.uvarint(s.End)
		e.str(s.Type)
	}
}

// decoder keeps the first error and turns every later read into a no-op.
type decoder struct {
	data []byte
	err  error
}

func newDecoder(data []byte, kind byte) *decoder {
	d := &decoder{data: data}
	if len(data) < 2 {
		d.err = errors.NewValueError("sample.Unmarshal", "truncated header")
		return d
	}
	if data[0] != codecVersion {
		d.err = errors.NewValueError("sample.Unmarshal", fmt.Sprintf("unsupported codec version %d", data[0]))
		return d
	}
	if data[1] != kind {
		d.err = errors.NewValueError("sample.Unmarshal", fmt.Sprintf("sample kind %d, expected %d", data[1], kind))
		return d
	}
	d.data = data[2:]
	return d
}

func (d *decoder) uvarint() int {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data)
	if n <= 0 || v > math.MaxInt32 {
		d.err = errors.NewValueError("sample.Unmarshal", "malformed length")
		return 0
	}
	d.data = d.data[n:]
	return int(v)
}

// count reads a collection length and checks it against the remaining
// input, assuming every element takes at least one byte.
func (d *decoder) count() int {
	n := d.uvarint()
	if d.err == nil && n > len(d.data) {
		d.err = errors.NewValueError("sample.Unmarshal", "truncated input")
		return 0
	}
	return n
}

func (d *decoder) str() string {
	n := d.count()
	if d.err != nil {
		return ""
	}
	s := string(d.data[:n])
	d.data = d.data[n:]
	return s
}

func (d *decoder) strs() []string {
	n := d.count()
	if d.err != nil {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = d.str()
	}
	return out
}

func (d *decoder) spans() []Span {
	n := d.count()
	if d.err != nil {
		return nil
	}
	out := make([]Span, n)
	for i := range out {
		out[i].Start = d.uvarint()
		out[i].End = d.uvarint()
		out[i].Type = d.str()
	}
	return out
}

func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if len(d.data) != 0 {
		return errors.NewValueError("sample.Unmarshal", fmt.Sprintf("%d trailing bytes", len(d.data)))
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s SentenceSample) MarshalBinary() ([]byte, error) {
	e := newEncoder(kindSentence)
	e.str(s.Document)
	e.spans(s.Sentences)
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *SentenceSample) UnmarshalBinary(data []byte) error {
	d := newDecoder(data, kindSentence)
	doc, sentences := d.str(), d.spans()
	if err := d.finish(); err != nil {
		return err
	}
	decoded, err := NewSentenceSample(doc, sentences)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s TokenSample) MarshalBinary() ([]byte, error) {
	e := newEncoder(kindToken)
	e.str(s.Text)
	e.spans(s.Tokens)
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *TokenSample) UnmarshalBinary(data []byte) error {
	d := newDecoder(data, kindToken)
	text, tokens := d.str(), d.spans()
	if err := d.finish(); err != nil {
		return err
	}
	decoded, err := NewTokenSample(text, tokens)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s POSSample) MarshalBinary() ([]byte, error) {
	e := newEncoder(kindPOS)
	e.strs(s.Tokens)
	e.strs(s.Tags)
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *POSSample) UnmarshalBinary(data []byte) error {
	d := newDecoder(data, kindPOS)
	tokens, tags := d.strs(), d.strs()
	if err := d.finish(); err != nil {
		return err
	}
	decoded, err := NewPOSSample(tokens, tags)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s LemmaSample) MarshalBinary() ([]byte, error) {
	e := newEncoder(kindLemma)
	e.strs(s.Tokens)
	e.strs(s.Tags)
	e.strs(s.Lemmas)
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *LemmaSample) UnmarshalBinary(data []byte) error {
	d := newDecoder(data, kindLemma)
	tokens, tags, lemmas := d.strs(), d.strs(), d.strs()
	if err := d.finish(); err != nil {
		return err
	}
	decoded, err := NewLemmaSample(tokens, tags, lemmas)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s ChunkSample) MarshalBinary() ([]byte, error) {
	e := newEncoder(kindChunk)
	e.strs(s.Tokens)
	e.strs(s.Tags)
	e.strs(s.Preds)
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *ChunkSample) UnmarshalBinary(data []byte) error {
	d := newDecoder(data, kindChunk)
	tokens, tags, preds := d.strs(), d.strs(), d.strs()
	if err := d.finish(); err != nil {
		return err
	}
	decoded, err := NewChunkSample(tokens, tags, preds)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
