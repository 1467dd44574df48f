package key

import (
	"errors"
	"io"
	"time"

	"github.com/zjrosen/sled/internal/log"
)

// DefaultEscapeTimeout is how long the decoder waits for the continuation of
// an escape sequence before treating ESC as a key of its own.
const DefaultEscapeTimeout = 20 * time.Millisecond

// Bytes with a fixed meaning outside and inside escape sequences.
const (
	byteTab       = 0x09
	byteNewline   = 0x0a
	byteEscape    = 0x1b
	byteBackspace = 0x7f

	seqIntroducer = '['
	seqDown       = 'B'
	seqRight      = 'C'
	seqLeft       = 'D'
	seqDelete     = '3'
	seqDeleteAlt  = 0x03 // written by some terminals instead of '3'
	seqTerminator = '~'
)

// maxEmptyReads bounds how many (0, nil) reads are tolerated before giving up.
const maxEmptyReads = 100

// Source is the byte stream the decoder consumes.
// Poll reports whether at least one byte can be read within timeout.
type Source interface {
	io.Reader
	Poll(timeout time.Duration) (bool, error)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithDelete enables or disables the forward Delete key.
// When disabled the Delete sequence decodes to KeyUnrecognized.
func WithDelete(enabled bool) Option {
	return func(d *Decoder) {
		d.deleteKey = enabled
	}
}

// Decoder produces one Event per call to Next. It keeps no state between calls:
// a sequence is either resolved completely or discarded.
type Decoder struct {
	src       Source
	timeout   time.Duration
	deleteKey bool
}

// NewDecoder creates a decoder reading from src.
// A non-positive timeout falls back to DefaultEscapeTimeout.
func NewDecoder(src Source, timeout time.Duration, opts ...Option) *Decoder {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	d := &Decoder{
		src:       src,
		timeout:   timeout,
		deleteKey: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timeout returns the escape continuation timeout.
func (d *Decoder) Timeout() time.Duration {
	return d.timeout
}

// Next reads and decodes the next key.
//
// When the source is closed Next returns Unrecognized together with io.EOF.
// Other read or poll failures are returned as-is, also with Unrecognized.
func (d *Decoder) Next() (Event, error) {
	c, err := d.readByte()
	if err != nil {
		return Unrecognized, err
	}

	switch {
	case c == byteEscape:
		return d.escape()
	case c >= 0x20 && c <= 0x7e:
		return Char(c), nil
	case c == byteTab:
		return Char(c), nil
	case c == byteNewline:
		return Special(KeyEnter), nil
	case c == byteBackspace:
		return Special(KeyBackspace), nil
	default:
		return Unrecognized, nil
	}
}

// escape resolves the bytes following ESC.
func (d *Decoder) escape() (Event, error) {
	ready, err := d.src.Poll(d.timeout)
	if err != nil {
		return Unrecognized, err
	}
	if !ready {
		return Special(KeyEscape), nil
	}

	for {
		c, err := d.readByte()
		if err != nil {
			return Unrecognized, err
		}

		switch c {
		case seqIntroducer:
			ready, err := d.src.Poll(d.timeout)
			if err != nil {
				return Unrecognized, err
			}
			if !ready {
				log.Debug(log.CatKey, "Incomplete escape sequence", "after", "[")
				return Unrecognized, nil
			}
		case seqDown:
			return Special(KeyDown), nil
		case seqRight:
			return Special(KeyRight), nil
		case seqLeft:
			return Special(KeyLeft), nil
		case seqDelete, seqDeleteAlt:
			return d.pending(KeyDelete)
		default:
			log.Debug(log.CatKey, "Unknown escape sequence terminator", "byte", c)
			return Unrecognized, nil
		}
	}
}

// pending waits for the '~' that completes a two-byte terminator and emits k.
func (d *Decoder) pending(k Key) (Event, error) {
	ready, err := d.src.Poll(d.timeout)
	if err != nil {
		return Unrecognized, err
	}
	if !ready {
		log.Debug(log.CatKey, "Incomplete escape sequence", "pending", k)
		return Unrecognized, nil
	}

	c, err := d.readByte()
	if err != nil {
		return Unrecognized, err
	}
	if c != seqTerminator {
		return Unrecognized, nil
	}
	if k == KeyDelete && !d.deleteKey {
		return Unrecognized, nil
	}
	return Special(k), nil
}

func (d *Decoder) readByte() (byte, error) {
	var b [1]byte
	for range maxEmptyReads {
		n, err := d.src.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, err
		}
	}
	return 0, io.ErrNoProgress
}
