package xmlreader

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/lestrrat-go/xmlreader/encoding"
	"github.com/stretchr/testify/require"
)

var bomTable = []struct {
	enc encoding.Encoding
	bom []byte
}{
	{encoding.UTF8, bomUTF8},
	{encoding.UTF16LE, bomUTF16LE},
	{encoding.UTF16BE, bomUTF16BE},
	{encoding.UTF32LE, bomUTF32LE},
	{encoding.UTF32BE, bomUTF32BE},
}

func encode(t *testing.T, e encoding.Encoding, s string) []byte {
	t.Helper()
	b, err := e.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err, "encoding %q as %s should succeed", s, e.Name())
	return b
}

func mustLoad(t *testing.T, name string) encoding.Encoding {
	t.Helper()
	e, err := encoding.Load(name)
	require.NoError(t, err)
	return e
}

func TestNewNilArguments(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilSource)

	_, err = NewBOMReader(nil)
	require.ErrorIs(t, err, ErrNilSource)

	_, err = New(bytes.NewReader(nil), WithFallback(encoding.Encoding{}))
	require.ErrorIs(t, err, ErrNilFallback)
}

func TestEmptyStream(t *testing.T) {
	r, err := New(bytes.NewReader(nil))
	require.NoError(t, err, "construction over an empty stream should succeed")
	require.Equal(t, "UTF-8", r.Encoding(), "single argument form falls back to UTF-8")

	r, err = New(bytes.NewReader(nil), WithFallback(mustLoad(t, "iso-8859-1")))
	require.NoError(t, err)
	require.Equal(t, "ISO-8859-1", r.Encoding(), "fallback encoding applies")

	_, _, err = r.ReadRune()
	require.ErrorIs(t, err, io.EOF)
}

func TestDetectEncodingFromBOM(t *testing.T) {
	for _, candidate := range bomTable {
		t.Logf("checking %s", candidate.enc.Name())
		input := append(append([]byte{}, candidate.bom...), encode(t, candidate.enc, "abc")...)

		r, err := New(bytes.NewReader(input), WithFallback(mustLoad(t, "iso-8859-1")))
		require.NoError(t, err)
		require.Equal(t, candidate.enc.Name(), r.Encoding())

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "abc", string(content), "only the BOM bytes are removed")
	}
}

func TestDetectEncodingFromProlog(t *testing.T) {
	for _, candidate := range bomTable {
		t.Logf("checking %s", candidate.enc.Name())
		text := `<?xml version="1.0" encoding="` + candidate.enc.Name() + `" ?><doc/>`

		r, err := New(bytes.NewReader(encode(t, candidate.enc, text)), WithFallback(mustLoad(t, "iso-8859-1")))
		require.NoError(t, err)
		require.Equal(t, candidate.enc.Name(), r.Encoding())

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, text, string(content), "detection consumed nothing")
	}
}

func TestDetectEncodingFromDeclaration(t *testing.T) {
	const text = `<?xml version="1.0" encoding="ISO-8859-15" ?><doc/>`

	r, err := New(bytes.NewReader([]byte(text)), WithFallback(mustLoad(t, "iso-8859-1")))
	require.NoError(t, err)
	require.Equal(t, "ISO-8859-15", r.Encoding(), "declared encoding overrides the fallback")
}

func TestBOMWinsOverDeclaration(t *testing.T) {
	text := `<?xml version="1.0" encoding="UTF-8" ?><doc/>`
	input := append(append([]byte{}, bomUTF16LE...), encode(t, encoding.UTF16LE, text)...)

	r, err := New(bytes.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "UTF-16LE", r.Encoding(), "an explicit BOM is authoritative")

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, text, string(content))
}

func TestBrokenBOM(t *testing.T) {
	inputs := [][]byte{
		{0xFE, 0xFF, 0x00, 0x00},
		{0x00, 0x00, 0xFF, 0xFE},
	}

	for i, input := range inputs {
		t.Logf("checking input %d", i)
		for _, fallback := range []string{"UTF-8", "iso-8859-1"} {
			_, err := New(bytes.NewReader(input), WithFallback(mustLoad(t, fallback)))
			require.Error(t, err, "construction must fail regardless of fallback")

			var uerr ErrUnsupportedEncoding
			require.True(t, errors.As(err, &uerr))
		}
	}
}

func TestUnresolvableDeclaredEncoding(t *testing.T) {
	input := []byte(`<?xml version="1.0" encoding="KLINGON-1" ?><doc/>`)

	_, err := New(bytes.NewReader(input))
	require.Error(t, err)

	var uerr ErrUnsupportedEncoding
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, "KLINGON-1", uerr.Name)
}

func TestIdempotentDetection(t *testing.T) {
	input := append(append([]byte{}, bomUTF16BE...), encode(t, encoding.UTF16BE, "<doc/>")...)

	r1, err := New(bytes.NewReader(input))
	require.NoError(t, err)
	r2, err := New(bytes.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, r1.Encoding(), r2.Encoding(), "identical streams resolve identically")
}

func TestBOMReaderIgnoresDeclaration(t *testing.T) {
	input := []byte(`<?xml version="1.0" encoding="ISO-8859-15" ?><doc/>`)

	r, err := NewBOMReader(bytes.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "UTF-8", r.Encoding(), "the BOM-only reader never inspects the content")

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, string(input), string(content))
}

func TestBOMReaderDetectsBOM(t *testing.T) {
	for _, candidate := range bomTable {
		t.Logf("checking %s", candidate.enc.Name())
		input := append(append([]byte{}, candidate.bom...), encode(t, candidate.enc, "abc")...)

		r, err := NewBOMReader(bytes.NewReader(input), WithFallback(mustLoad(t, "iso-8859-1")))
		require.NoError(t, err)
		require.Equal(t, candidate.enc.Name(), r.Encoding())

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "abc", string(content))
	}
}

func TestReadRune(t *testing.T) {
	input := append(append([]byte{}, bomUTF16LE...), encode(t, encoding.UTF16LE, "a€c")...)

	r, err := New(bytes.NewReader(input))
	require.NoError(t, err)

	for _, expected := range []rune{'a', '€', 'c'} {
		c, _, err := r.ReadRune()
		require.NoError(t, err)
		require.Equal(t, expected, c)
	}

	_, _, err = r.ReadRune()
	require.ErrorIs(t, err, io.EOF)
}

func TestRoundTrip(t *testing.T) {
	const text = `<?xml version="1.0" ?>hello world`

	for _, candidate := range bomTable {
		t.Logf("checking %s", candidate.enc.Name())
		input := append(append([]byte{}, candidate.bom...), encode(t, candidate.enc, text)...)

		r, err := New(bytes.NewReader(input))
		require.NoError(t, err)

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, text, string(content))
	}
}

type countingCloser struct {
	io.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestCloseSemantics(t *testing.T) {
	src := &countingCloser{Reader: bytes.NewReader([]byte("<doc/>"))}

	r, err := New(src)
	require.NoError(t, err)
	require.NotEmpty(t, r.Encoding())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close must be idempotent")
	require.Equal(t, 1, src.closed, "underlying source closed exactly once")

	require.Empty(t, r.Encoding(), "no encoding name once closed")
	require.False(t, r.Ready())

	_, err = r.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrClosed)

	_, _, err = r.ReadRune()
	require.ErrorIs(t, err, ErrClosed)
}

func TestReady(t *testing.T) {
	r, err := New(bytes.NewReader([]byte("<doc/>")))
	require.NoError(t, err)

	require.False(t, r.Ready(), "nothing buffered before the first read")

	_, _, err = r.ReadRune()
	require.NoError(t, err)
	require.True(t, r.Ready(), "the rest of the document is buffered now")
}
