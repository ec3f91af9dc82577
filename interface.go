// Package xmlreader provides a reader that determines the character
// encoding of a byte stream the way appendix F of the XML
// specification suggests, and exposes the stream as decoded (UTF-8)
// text. The encoding is resolved once, during construction, from the
// byte order mark, the byte pattern of the "<?xml" prolog, and the
// encoding="..." pseudo-attribute of the XML declaration, in that
// order of authority, falling back to a caller-supplied encoding when
// the stream carries no signal at all.
package xmlreader

import (
	"bufio"

	"github.com/lestrrat-go/xmlreader/encoding"
	"github.com/lestrrat-go/xmlreader/internal/pushback"
	"github.com/pkg/errors"
)

var (
	ErrNilSource   = errors.New("nil input source")
	ErrNilFallback = errors.New("nil fallback encoding")
	ErrClosed      = errors.New("reader is closed")
)

const (
	// lookahead for the BOM-only reader: the longest BOM is 4 bytes
	bomLookahead = 4

	// the XML declaration must be found within the first 80
	// characters, each of which may occupy up to 4 bytes
	maxDeclChars  = 80
	declLookahead = maxDeclChars * 4
)

// detectFunc is a detection stage run after the BOM has been
// inspected. It receives the BOM verdict (possibly invalid) and the
// caller's fallback, and must leave the pending bytes of pin exactly
// as it found them.
type detectFunc func(pin *pushback.Buffer, fromBOM, fallback encoding.Encoding) (encoding.Encoding, error)

// Reader reads a byte stream as decoded text. All detection work
// happens in the constructor; reads are pure delegation to a decoder
// for the resolved encoding.
type Reader struct {
	pin    *pushback.Buffer
	txt    *bufio.Reader
	name   string
	closed bool
}
