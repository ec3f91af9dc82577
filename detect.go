package xmlreader

import (
	"bytes"
	"io"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xmlreader/encoding"
	"github.com/lestrrat-go/xmlreader/internal/pushback"
)

// BOM patterns. The broken variants look like a byte-swapped UTF-32
// BOM whose first two bytes coincide with a legitimate UTF-16 BOM,
// so they must be tried first, over the full 4 byte window.
var (
	bomUTF8          = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE       = []byte{0xFF, 0xFE}
	bomUTF16BE       = []byte{0xFE, 0xFF}
	bomUTF32LE       = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE       = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomBrokenUTF32LE = []byte{0xFE, 0xFF, 0x00, 0x00}
	bomBrokenUTF32BE = []byte{0x00, 0x00, 0xFF, 0xFE}
)

// "<?xml" (0x3C 0x3F 0x78 0x6D 0x6C) laid out in each candidate code
// unit size. Same longest-first, broken-first discipline as the BOMs.
var (
	declUTF8 = []byte{0x3C, 0x3F, 0x78, 0x6D, 0x6C}

	declUTF16LE = []byte{
		0x3C, 0x00, 0x3F, 0x00, 0x78, 0x00,
		0x6D, 0x00, 0x6C, 0x00,
	}
	declUTF16BE = []byte{
		0x00, 0x3C, 0x00, 0x3F, 0x00, 0x78,
		0x00, 0x6D, 0x00, 0x6C,
	}

	declUTF32LE = []byte{
		0x3C, 0x00, 0x00, 0x00,
		0x3F, 0x00, 0x00, 0x00,
		0x78, 0x00, 0x00, 0x00,
		0x6D, 0x00, 0x00, 0x00,
		0x6C, 0x00, 0x00, 0x00,
	}
	declUTF32BE = []byte{
		0x00, 0x00, 0x00, 0x3C,
		0x00, 0x00, 0x00, 0x3F,
		0x00, 0x00, 0x00, 0x78,
		0x00, 0x00, 0x00, 0x6D,
		0x00, 0x00, 0x00, 0x6C,
	}

	declBrokenUTF32LE = []byte{
		0x00, 0x3C, 0x00, 0x00,
		0x00, 0x3F, 0x00, 0x00,
		0x00, 0x78, 0x00, 0x00,
		0x00, 0x6D, 0x00, 0x00,
		0x00, 0x6C, 0x00, 0x00,
	}
	declBrokenUTF32BE = []byte{
		0x00, 0x00, 0x3C, 0x00,
		0x00, 0x00, 0x3F, 0x00,
		0x00, 0x00, 0x78, 0x00,
		0x00, 0x00, 0x6D, 0x00,
		0x00, 0x00, 0x6C, 0x00,
	}
)

// fill reads into buf until it is full or the stream ends. A short
// stream is not an error here; the caller gets however many bytes
// there were.
func fill(pin *pushback.Buffer, buf []byte) (int, error) {
	n, err := io.ReadFull(pin, buf)
	switch err {
	case nil, io.EOF, io.ErrUnexpectedEOF:
		return n, nil
	default:
		return n, err
	}
}

// startsWith reports whether the first n bytes of buf begin with
// pattern. A window shorter than the pattern never matches.
func startsWith(buf []byte, n int, pattern []byte) bool {
	if n < len(pattern) {
		return false
	}
	return bytes.Equal(buf[:len(pattern)], pattern)
}

// detectBOM reads up to 4 bytes and classifies any byte order mark.
// On a match only the BOM bytes are consumed; anything read beyond
// them is pushed back. With no match everything is pushed back and an
// invalid encoding is returned.
func detectBOM(pin *pushback.Buffer) (encoding.Encoding, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	buf := make([]byte, 4)
	n, err := fill(pin, buf)
	if err != nil {
		return encoding.Encoding{}, err
	}
	if n == 0 {
		return encoding.Encoding{}, nil
	}

	if startsWith(buf, n, bomBrokenUTF32LE) {
		return encoding.Encoding{}, ErrUnsupportedEncoding{Name: "UTF-32LE", Reason: "unusual ordered BOM"}
	}
	if startsWith(buf, n, bomBrokenUTF32BE) {
		return encoding.Encoding{}, ErrUnsupportedEncoding{Name: "UTF-32BE", Reason: "unusual ordered BOM"}
	}
	if startsWith(buf, n, bomUTF32BE) {
		return encoding.UTF32BE, nil
	}
	if startsWith(buf, n, bomUTF32LE) {
		return encoding.UTF32LE, nil
	}
	if startsWith(buf, n, bomUTF8) {
		if err := pin.Unread(buf[3:n]); err != nil {
			return encoding.Encoding{}, err
		}
		return encoding.UTF8, nil
	}
	if startsWith(buf, n, bomUTF16LE) {
		if err := pin.Unread(buf[2:n]); err != nil {
			return encoding.Encoding{}, err
		}
		return encoding.UTF16LE, nil
	}
	if startsWith(buf, n, bomUTF16BE) {
		if err := pin.Unread(buf[2:n]); err != nil {
			return encoding.Encoding{}, err
		}
		return encoding.UTF16BE, nil
	}

	if pdebug.Enabled {
		pdebug.Printf("no byte order mark in % x", buf[:n])
	}
	if err := pin.Unread(buf[:n]); err != nil {
		return encoding.Encoding{}, err
	}
	return encoding.Encoding{}, nil
}

// detectProlog reads a window large enough for "<?xml" in a 4 byte
// per character encoding and matches it against the known layouts.
// The window is always pushed back whole; this stage never consumes
// anything, since the prolog belongs to the document content.
func detectProlog(pin *pushback.Buffer) (encoding.Encoding, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	buf := make([]byte, len(declUTF32LE))
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

	if startsWith(buf, n, declBrokenUTF32LE) {
		return encoding.Encoding{}, ErrUnsupportedEncoding{Name: "UTF-32LE", Reason: "unusual ordered"}
	}
	if startsWith(buf, n, declBrokenUTF32BE) {
		return encoding.Encoding{}, ErrUnsupportedEncoding{Name: "UTF-32BE", Reason: "unusual ordered"}
	}
	if startsWith(buf, n, declUTF32BE) {
		return encoding.UTF32BE, nil
	}
	if startsWith(buf, n, declUTF32LE) {
		return encoding.UTF32LE, nil
	}
	if startsWith(buf, n, declUTF8) {
		return encoding.UTF8, nil
	}
	if startsWith(buf, n, declUTF16LE) {
		return encoding.UTF16LE, nil
	}
	if startsWith(buf, n, declUTF16BE) {
		return encoding.UTF16BE, nil
	}

	return encoding.Encoding{}, nil
}
