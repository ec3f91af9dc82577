package xmlreader

import (
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xmlreader/encoding"
	"github.com/lestrrat-go/xmlreader/internal/pushback"
)

// detectDeclaration is the XML-aware detection stage. It refines the
// BOM verdict with the byte layout of the "<?xml" prolog and the
// encoding="..." pseudo-attribute of the declaration, in that order.
// A byte order mark remains authoritative: the declaration only
// decides when the stream did not carry one.
func detectDeclaration(pin *pushback.Buffer, fromBOM, fallback encoding.Encoding) (encoding.Encoding, error) {
	fromProlog, err := detectProlog(pin)
	if err != nil {
		return encoding.Encoding{}, err
	}

	guess := fromBOM
	if !guess.IsValid() {
		guess = fromProlog
	}
	if !guess.IsValid() {
		guess = fallback
	}

	declared, err := readDeclaredEncoding(pin, guess)
	if err != nil {
		return encoding.Encoding{}, err
	}

	if fromBOM.IsValid() {
		return fromBOM, nil
	}
	if declared.IsValid() {
		return declared, nil
	}
	return guess, nil
}

// readDeclaredEncoding reads the full lookahead window, decodes it
// with the working guess, and extracts the value of encoding="..."
// from the XML declaration, if there is one. The window is pushed
// back whole before the text is examined. An incomplete prolog or a
// declaration without the attribute is not an error; a declared name
// that resolves to nothing is.
func readDeclaredEncoding(pin *pushback.Buffer, guess encoding.Encoding) (encoding.Encoding, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	buf := make([]byte, declLookahead)
	n, err := fill(pin, buf)
	if err != nil {
		return encoding.Encoding{}, err
	}
	if n == 0 {
		return encoding.Encoding{}, nil
	}

	if err := pin.Unread(buf[:n]); err != nil {
		return encoding.Encoding{}, err
	}

	decoded, err := guess.NewDecoder().Bytes(buf[:n])
	if err != nil {
		// not decodable with the guess, so certainly not a
		// declaration we could trust
		if pdebug.Enabled {
			pdebug.Printf("failed to decode lookahead window as %s: %s", guess.Name(), err)
		}
		return encoding.Encoding{}, nil
	}

	head := string(decoded)
	if !strings.HasPrefix(head, "<?xml") {
		return encoding.Encoding{}, nil
	}
	end := strings.Index(head, "?>")
	if end <= 0 {
		return encoding.Encoding{}, nil
	}

	decl := head[:end]
	const attr = `encoding="`
	i := strings.Index(decl, attr)
	if i <= 0 {
		return encoding.Encoding{}, nil
	}
	v := decl[i+len(attr):]
	j := strings.IndexByte(v, '"')
	if j < 0 {
		return encoding.Encoding{}, nil
	}
	name := v[:j]

	if pdebug.Enabled {
		pdebug.Printf("declaration says encoding=%q", name)
	}

	e, err := encoding.Load(name)
	if err != nil {
		return encoding.Encoding{}, ErrUnsupportedEncoding{Name: name, Reason: "declared encoding not in registry"}
	}
	return e, nil
}
