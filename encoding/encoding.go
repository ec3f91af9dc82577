// Package encoding wraps around the various encoding stuff in
// golang.org/x/text/encoding. Part of the reason this exists is that
// the package names such as "unicode" clash with the stdlib, and
// it's rather easier if we just hide it from xmlreader. It also pairs
// each encoding with a stable canonical name, which golang.org/x/text
// alone does not give us for every encoding we care about.
package encoding

import (
	"strings"

	"github.com/pkg/errors"
	enc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding is a named character encoding. The zero value is invalid,
// and marks the absence of an encoding.
type Encoding struct {
	name string
	impl enc.Encoding
}

// The Unicode encodings that can be announced by a byte order mark.
// The UTF-16/UTF-32 variants carry their endianness in the name, so
// the decoders neither expect nor emit a BOM themselves.
var (
	UTF8    = Encoding{name: "UTF-8", impl: unicode.UTF8}
	UTF16LE = Encoding{name: "UTF-16LE", impl: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	UTF16BE = Encoding{name: "UTF-16BE", impl: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF32LE = Encoding{name: "UTF-32LE", impl: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)}
	UTF32BE = Encoding{name: "UTF-32BE", impl: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)}
)

// Name returns the canonical name of the encoding.
func (e Encoding) Name() string {
	return e.name
}

// IsValid reports whether e denotes an actual encoding.
func (e Encoding) IsValid() bool {
	return e.impl != nil
}

func (e Encoding) NewDecoder() *enc.Decoder {
	return e.impl.NewDecoder()
}

func (e Encoding) NewEncoder() *enc.Encoder {
	return e.impl.NewEncoder()
}

// Load resolves an encoding name to an Encoding. A private table of
// well-known names and aliases is consulted first so that encodings
// that the IANA registry will not resolve for us (most notably the
// UTF-32 variants) still work, then the lookup falls through to
// golang.org/x/text/encoding/ianaindex.
func Load(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return UTF8, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	case "utf-32le", "utf32le":
		return UTF32LE, nil
	case "utf-32be", "utf32be":
		return UTF32BE, nil
	case "euc-jp":
		return Encoding{name: "EUC-JP", impl: japanese.EUCJP}, nil
	case "shift_jis", "shift-jis", "shiftjis", "cp932":
		return Encoding{name: "Shift_JIS", impl: japanese.ShiftJIS}, nil
	case "jis", "iso-2022-jp":
		return Encoding{name: "ISO-2022-JP", impl: japanese.ISO2022JP}, nil
	case "big5":
		return Encoding{name: "Big5", impl: traditionalchinese.Big5}, nil
	case "euc-kr":
		return Encoding{name: "EUC-KR", impl: korean.EUCKR}, nil
	case "hz-gb2312":
		return Encoding{name: "HZ-GB2312", impl: simplifiedchinese.HZGB2312}, nil
	case "cp437":
		return Encoding{name: "IBM437", impl: charmap.CodePage437}, nil
	case "cp866":
		return Encoding{name: "IBM866", impl: charmap.CodePage866}, nil
	case "iso-8859-1", "latin1":
		return Encoding{name: "ISO-8859-1", impl: charmap.ISO8859_1}, nil
	case "iso-8859-2":
		return Encoding{name: "ISO-8859-2", impl: charmap.ISO8859_2}, nil
	case "iso-8859-3":
		return Encoding{name: "ISO-8859-3", impl: charmap.ISO8859_3}, nil
	case "iso-8859-4":
		return Encoding{name: "ISO-8859-4", impl: charmap.ISO8859_4}, nil
	case "iso-8859-5":
		return Encoding{name: "ISO-8859-5", impl: charmap.ISO8859_5}, nil
	case "iso-8859-6":
		return Encoding{name: "ISO-8859-6", impl: charmap.ISO8859_6}, nil
	case "iso-8859-7":
		return Encoding{name: "ISO-8859-7", impl: charmap.ISO8859_7}, nil
	case "iso-8859-8":
		return Encoding{name: "ISO-8859-8", impl: charmap.ISO8859_8}, nil
	case "iso-8859-10":
		return Encoding{name: "ISO-8859-10", impl: charmap.ISO8859_10}, nil
	case "iso-8859-13":
		return Encoding{name: "ISO-8859-13", impl: charmap.ISO8859_13}, nil
	case "iso-8859-14":
		return Encoding{name: "ISO-8859-14", impl: charmap.ISO8859_14}, nil
	case "iso-8859-15":
		return Encoding{name: "ISO-8859-15", impl: charmap.ISO8859_15}, nil
	case "iso-8859-16":
		return Encoding{name: "ISO-8859-16", impl: charmap.ISO8859_16}, nil
	case "koi8r", "koi8-r":
		return Encoding{name: "KOI8-R", impl: charmap.KOI8R}, nil
	case "koi8u", "koi8-u":
		return Encoding{name: "KOI8-U", impl: charmap.KOI8U}, nil
	case "macintosh":
		return Encoding{name: "macintosh", impl: charmap.Macintosh}, nil
	case "windows-874", "windows874":
		return Encoding{name: "windows-874", impl: charmap.Windows874}, nil
	case "windows-1250", "windows1250":
		return Encoding{name: "windows-1250", impl: charmap.Windows1250}, nil
	case "windows-1251", "windows1251":
		return Encoding{name: "windows-1251", impl: charmap.Windows1251}, nil
	case "windows-1252", "windows1252":
		return Encoding{name: "windows-1252", impl: charmap.Windows1252}, nil
	case "windows-1253", "windows1253":
		return Encoding{name: "windows-1253", impl: charmap.Windows1253}, nil
	case "windows-1254", "windows1254":
		return Encoding{name: "windows-1254", impl: charmap.Windows1254}, nil
	case "windows-1255", "windows1255":
		return Encoding{name: "windows-1255", impl: charmap.Windows1255}, nil
	case "windows-1256", "windows1256":
		return Encoding{name: "windows-1256", impl: charmap.Windows1256}, nil
	case "windows-1257", "windows1257":
		return Encoding{name: "windows-1257", impl: charmap.Windows1257}, nil
	case "windows-1258", "windows1258":
		return Encoding{name: "windows-1258", impl: charmap.Windows1258}, nil
	}

	e, err := ianaindex.IANA.Encoding(name)
	if err != nil || e == nil {
		return Encoding{}, errors.Errorf(`unknown encoding %q`, name)
	}

	canonical, err := ianaindex.IANA.Name(e)
	if err != nil {
		canonical = name
	}
	return Encoding{name: canonical, impl: e}, nil
}
