// Package pushback provides a byte stream wrapper that allows bytes
// that have already been read to be pushed back onto the stream, so
// that the next read observes them again. The detection code uses it
// to peek at the head of a stream without disturbing the bytes the
// eventual consumer gets to see.
package pushback

import (
	"io"

	"github.com/pkg/errors"
)

// ErrTooManyBytes is returned by Unread when accepting the bytes
// would exceed the buffer capacity fixed at construction. This is a
// programming error on the caller's side, not a stream condition.
var ErrTooManyBytes = errors.New(`pushback buffer capacity exceeded`)

// Buffer wraps a sequential byte source with a bounded unread
// facility. Pending (pushed back) bytes occupy the tail of buf,
// starting at pos; they are drained before the source is consulted
// again. Buffer is not safe for concurrent use.
type Buffer struct {
	src    io.Reader
	buf    []byte
	pos    int
	closed bool
}

// New creates a Buffer over src that can hold up to capacity pushed
// back bytes at a time.
func New(src io.Reader, capacity int) *Buffer {
	return &Buffer{
		src: src,
		buf: make([]byte, capacity),
		pos: capacity,
	}
}

// Capacity returns the maximum number of bytes that can be pending
// simultaneously.
func (b *Buffer) Capacity() int {
	return len(b.buf)
}

// Read drains pending bytes first, then reads from the underlying
// source. A single call does not mix the two, so a short read does
// not imply end of stream.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.closed {
		return 0, errors.New(`read from closed pushback buffer`)
	}

	if b.pos < len(b.buf) {
		n := copy(p, b.buf[b.pos:])
		b.pos += n
		return n, nil
	}
	return b.src.Read(p)
}

// Unread pushes p back onto the stream. The next reads observe p in
// order, before any pending bytes from an earlier Unread and before
// any new bytes from the source.
func (b *Buffer) Unread(p []byte) error {
	if len(p) > b.pos {
		return errors.Wrapf(ErrTooManyBytes, `unread of %d bytes with %d pending (capacity %d)`, len(p), len(b.buf)-b.pos, len(b.buf))
	}
	b.pos -= len(p)
	copy(b.buf[b.pos:], p)
	return nil
}

// Close closes the underlying source if it is an io.Closer. Closing
// more than once is a no-op.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	if c, ok := b.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
