// Package linebuf provides the capacity-bounded line buffer edited by sled.
//
// A Buffer holds a single line as raw bytes. Every byte is one logical
// character: the editor never interprets multi-byte encodings, so index
// arithmetic is plain byte arithmetic. The capacity bound is enforced on every
// mutation; writing past it is an error, never silent truncation.
package linebuf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
)

// DefaultCapacity is the historical line limit.
const DefaultCapacity = 1024

// Errors returned by buffer operations.
var (
	// ErrCapacityExceeded indicates an insert into a buffer that is already full.
	ErrCapacityExceeded = errors.New("line buffer capacity exceeded")

	// ErrIndexOutOfRange indicates an index outside the buffer.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Buffer is a mutable single line with a fixed capacity.
type Buffer struct {
	data     []byte
	capacity int
}

// New creates an empty buffer holding at most capacity bytes.
// A capacity below 2 falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// NewFromString creates a buffer preloaded with s.
// Content beyond the capacity is dropped.
func NewFromString(s string, capacity int) *Buffer {
	b := New(capacity)
	if len(s) > b.capacity {
		s = s[:b.capacity]
	}
	b.data = append(b.data, s...)
	return b
}

// Len returns the number of bytes in the line.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the maximum number of bytes the line may hold.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Full reports whether another insert would exceed the capacity.
func (b *Buffer) Full() bool {
	return len(b.data) >= b.capacity
}

// Bytes returns a copy of the line content.
func (b *Buffer) Bytes() []byte {
	return slices.Clone(b.data)
}

// String returns the line content.
func (b *Buffer) String() string {
	return string(b.data)
}

// At returns the byte at index i.
func (b *Buffer) At(i int) (byte, bool) {
	if i < 0 || i >= len(b.data) {
		return 0, false
	}
	return b.data[i], true
}

// Reset empties the line without changing its capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

// Insert places c at index i, shifting the bytes at and after i one position
// to the right. Valid indices are [0, Len()].
func (b *Buffer) Insert(c byte, i int) error {
	if i < 0 || i > len(b.data) {
		return fmt.Errorf("insert at %d (len %d): %w", i, len(b.data), ErrIndexOutOfRange)
	}
	if b.Full() {
		return fmt.Errorf("insert at %d: %w", i, ErrCapacityExceeded)
	}
	b.data = slices.Insert(b.data, i, c)
	return nil
}

// Remove deletes the byte at index i, shifting the following bytes left.
// Removing at Len() is a no-op: there is nothing after the end of the line.
func (b *Buffer) Remove(i int) error {
	if i == len(b.data) {
		return nil
	}
	if i < 0 || i > len(b.data) {
		return fmt.Errorf("remove at %d (len %d): %w", i, len(b.data), ErrIndexOutOfRange)
	}
	b.data = slices.Delete(b.data, i, i+1)
	return nil
}

// Load replaces the content with the next line read from r.
//
// At most Cap()-1 bytes are consumed per call; a longer line is delivered in
// pieces by successive calls. One trailing '\n' is stripped, together with a
// '\r' that precedes it. Load reports false once r has no more bytes.
func (b *Buffer) Load(r *bufio.Reader) (bool, error) {
	limit := b.capacity - 1
	line := make([]byte, 0, limit)

	for len(line) < limit {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return false, nil
			}
			break
		}
		if err != nil {
			return false, fmt.Errorf("reading line: %w", err)
		}
		if c == '\n' {
			line = append(line, c)
			break
		}
		line = append(line, c)
	}

	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}

	b.data = append(b.data[:0], line...)
	return true, nil
}

// Source reads successive lines from a stream.
type Source struct {
	r *bufio.Reader
}

// NewSource wraps r. A *bufio.Reader is used as-is.
func NewSource(r io.Reader) *Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Source{r: br}
}

// Next loads the next line into b. See Buffer.Load.
func (s *Source) Next(b *Buffer) (bool, error) {
	return b.Load(s.r)
}
