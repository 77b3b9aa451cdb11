package stream

import (
	"bufio"
	"io"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Opener opens the storage behind a LineStream. It is called once per pass,
// so every call must return a reader positioned at the beginning.
type Opener func() (io.ReadCloser, error)

// maxLineSize bounds a single corpus line. Annotated documents in one line can
// be large, so this is well above bufio's default.
const maxLineSize = 4 << 20

// LineStream yields the lines of a UTF-8 text source without the trailing
// newline. The source is opened lazily on the first Read and reopened on every
// pass after Reset.
type LineStream struct {
	open    Opener
	rc      io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

// Lines creates a line stream over the storage returned by open.
func Lines(open Opener) *LineStream {
	return &LineStream{open: open}
}

// Read implements Stream.
func (s *LineStream) Read() (string, error) {
	if s.closed {
		return "", errors.ErrStreamClosed
	}
	if s.scanner == nil {
		rc, err := s.open()
		if err != nil {
			return "", errors.Wrap(err, "open line source")
		}
		s.rc = rc
		s.scanner = bufio.NewScanner(rc)
		s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", errors.Wrap(err, "read line")
	}
	return "", io.EOF
}

// Reset implements Stream. The source is reopened on the next Read.
func (s *LineStream) Reset() error {
	if s.closed {
		return errors.ErrStreamClosed
	}
	return s.release()
}

// Close implements Stream.
func (s *LineStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.release()
}

// Reopen implements Reopener.
func (s *LineStream) Reopen() (Stream[string], error) {
	if s.closed {
		return nil, errors.ErrStreamClosed
	}
	return Lines(s.open), nil
}

func (s *LineStream) release() error {
	s.scanner = nil
	if s.rc == nil {
		return nil
	}
	rc := s.rc
	s.rc = nil
	return rc.Close()
}
