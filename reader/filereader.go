// Package reader implements the buffered streaming source for the parser's
// incremental mode: read a fixed-size chunk, prepend whatever the scanner
// had not yet consumed from the previous chunk, and hand back a freshly
// allocated byte slice, which the scanner wraps in a RefCountedSlice.
package reader

import (
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is wrapped into the error FileReader.Read returns when the
// underlying reader fails before reaching EOF.
var ErrShortRead = errors.New("reader: short read")

// MinReadBufferSize is the smallest read_buffer_size the parser accepts,
// expressed in terms of the longest delimiter in use: a chunk must be able
// to hold two full delimiters so a tag can never straddle more than one
// read boundary invisibly.
func MinReadBufferSize(maxDelimiterLen int) int {
	return 2 * maxDelimiterLen
}

// FileReader wraps an io.Reader with the buffered-read-with-prepend
// protocol the streaming TextScanner relies on.
type FileReader struct {
	src           io.Reader
	readBufferLen int
	eof           bool
}

// New constructs a FileReader. readBufferLen must be at least
// MinReadBufferSize(maxDelimiterLen). New does not check it; the parser
// uses MinReadBufferSize as the default when Options.ReadBufferSize is zero
// and passes a caller-supplied size through unchecked.
func New(src io.Reader, readBufferLen int) *FileReader {
	return &FileReader{src: src, readBufferLen: readBufferLen}
}

// Finished reports whether the last Read call reached EOF.
func (f *FileReader) Finished() bool {
	return f.eof
}

// Read allocates a buffer of len(prepend)+readBufferLen, copies prepend to
// its head, reads up to readBufferLen bytes into the tail, and shrinks the
// buffer if the underlying reader returned fewer bytes than requested (the
// short read sets Finished()). The caller is the buffer's sole initial
// holder.
func (f *FileReader) Read(prepend []byte) ([]byte, error) {
	if f.eof {
		return prepend, nil
	}

	buf := make([]byte, len(prepend)+f.readBufferLen)
	copy(buf, prepend)

	n, err := io.ReadFull(f.src, buf[len(prepend):])
	switch {
	case err == nil:
		// filled the whole tail; more data may remain
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		f.eof = true
	default:
		return nil, fmt.Errorf("reader: %w: %v", ErrShortRead, err)
	}

	return buf[:len(prepend)+n], nil
}
