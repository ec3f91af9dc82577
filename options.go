package xmlreader

import (
	"github.com/lestrrat-go/option"
	"github.com/lestrrat-go/xmlreader/encoding"
)

type Option = option.Interface

type identFallback struct{}

// WithFallback specifies the encoding to use when neither the byte
// order mark nor the document content carries an encoding signal.
func WithFallback(v encoding.Encoding) Option {
	return option.New(identFallback{}, v)
}

// WithFallbackName is WithFallback with the encoding given by name,
// resolved through the encoding registry.
func WithFallbackName(name string) (Option, error) {
	e, err := encoding.Load(name)
	if err != nil {
		return nil, err
	}
	return WithFallback(e), nil
}
