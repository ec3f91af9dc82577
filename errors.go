package xmlreader

// ErrUnsupportedEncoding is returned when the stream announces an
// encoding this package refuses to read: a byte-swapped UTF-32 byte
// order mark or prolog, or a declared encoding name that no registry
// resolves. It is a deliberate refusal to guess, never retried.
type ErrUnsupportedEncoding struct {
	Name   string
	Reason string
}

func (e ErrUnsupportedEncoding) Error() string {
	return "unsupported encoding: " + e.Name + " - " + e.Reason
}
