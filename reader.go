package xmlreader

import (
	"bufio"
	"io"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xmlreader/encoding"
	"github.com/lestrrat-go/xmlreader/internal/pushback"
	"github.com/pkg/errors"
)

// New creates a Reader over an XML byte stream. The encoding is
// resolved from the byte order mark, the "<?xml" prolog layout and
// the encoding="..." declaration attribute; with no signal the
// fallback encoding applies, which is UTF-8 unless overridden with
// WithFallback.
func New(src io.Reader, options ...Option) (*Reader, error) {
	return newReader(src, declLookahead, detectDeclaration, options...)
}

// NewBOMReader creates a Reader that only looks for a byte order
// mark. The prolog and declaration of the content, XML or not, are
// never examined; without a BOM the fallback encoding applies.
func NewBOMReader(src io.Reader, options ...Option) (*Reader, error) {
	return newReader(src, bomLookahead, nil, options...)
}

func newReader(src io.Reader, lookahead int, extra detectFunc, options ...Option) (*Reader, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if src == nil {
		return nil, ErrNilSource
	}

	fallback := encoding.UTF8
	for _, option := range options {
		switch option.Ident() {
		case identFallback{}:
			fallback = option.Value().(encoding.Encoding)
		}
	}
	if !fallback.IsValid() {
		return nil, ErrNilFallback
	}

	pin := pushback.New(src, lookahead)

	final, err := resolveEncoding(pin, fallback, extra)
	if err != nil {
		return nil, err
	}

	if pdebug.Enabled {
		pdebug.Printf("resolved encoding %s", final.Name())
	}

	return &Reader{
		pin:  pin,
		txt:  bufio.NewReader(final.NewDecoder().Reader(pin)),
		name: final.Name(),
	}, nil
}

func resolveEncoding(pin *pushback.Buffer, fallback encoding.Encoding, extra detectFunc) (encoding.Encoding, error) {
	fromBOM, err := detectBOM(pin)
	if err != nil {
		return encoding.Encoding{}, errors.Wrap(err, `failed to inspect byte order mark`)
	}

	if extra != nil {
		final, err := extra(pin, fromBOM, fallback)
		if err != nil {
			return encoding.Encoding{}, errors.Wrap(err, `failed to inspect document content`)
		}
		return final, nil
	}

	if fromBOM.IsValid() {
		return fromBOM, nil
	}
	return fallback, nil
}

// Encoding returns the canonical name of the resolved encoding, or an
// empty string once the reader has been closed.
func (r *Reader) Encoding() string {
	if r.closed {
		return ""
	}
	return r.name
}

// Read reads decoded content into p as UTF-8 bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	return r.txt.Read(p)
}

// ReadRune reads a single decoded character.
func (r *Reader) ReadRune() (rune, int, error) {
	if r.closed {
		return 0, 0, ErrClosed
	}
	return r.txt.ReadRune()
}

// Ready reports whether a Read can deliver at least one byte without
// touching the underlying source.
func (r *Reader) Ready() bool {
	if r.closed {
		return false
	}
	return r.txt.Buffered() > 0
}

// Close closes the underlying source, if it can be closed, exactly
// once. Further calls are no-ops.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.pin.Close()
}
