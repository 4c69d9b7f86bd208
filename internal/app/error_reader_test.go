package app

import (
	"errors"
	"io"
)

// ErrorReader returns its data and then err instead of io.EOF.
type ErrorReader struct {
	data []byte
	pos  int
	err  error
}

// NewErrorReader creates a reader that fails with err once data is consumed.
func NewErrorReader(data string, err error) *ErrorReader {
	return &ErrorReader{data: []byte(data), err: err}
}

func (r *ErrorReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// ErrMockRead is a test error for reader failures.
var ErrMockRead = errors.New("mock read error")
