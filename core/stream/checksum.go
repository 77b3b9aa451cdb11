package stream

import (
	"crypto/md5"
	"fmt"
	"io"
	"math/big"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Checksum computes an MD5 digest over the string form of every sample, read
// from the first sample on. The stream is reset before and after hashing so it
// can be handed to a trainer right away. Samples are rendered with fmt, which
// uses their String method when they have one.
func Checksum[T any](s Stream[T]) (*big.Int, error) {
	if err := s.Reset(); err != nil {
		return nil, err
	}
	digest := md5.New()
	for {
		item, err := s.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprint(digest, item); err != nil {
			return nil, errors.Wrap(err, "hash sample")
		}
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(digest.Sum(nil)), nil
}

// VerifyChecksum fails with errors.ErrChecksumMismatch when the checksum of s
// differs from want. It guards against a corpus changing between the passes of
// a multi-pass trainer.
func VerifyChecksum[T any](s Stream[T], want *big.Int) error {
	got, err := Checksum(s)
	if err != nil {
		return err
	}
	if want == nil || got.Cmp(want) != 0 {
		return errors.Wrapf(errors.ErrChecksumMismatch, "got %s, want %v", got.Text(16), want)
	}
	return nil
}
