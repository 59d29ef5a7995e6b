package wkt

// Exportable is implemented by constructs that can describe themselves in
// the bracketed grammar.
type Exportable interface {
	// AppendWKT writes the construct to f. Implementations report
	// constructs the active convention cannot express by returning an
	// error wrapping ErrFormat.
	AppendWKT(f *Formatter) error
}

// Export renders obj under the given options. It is the single fallible
// entry point: grammar-level problems surface here, not as panics.
func Export(obj Exportable, opts ...FormatterOption) (string, error) {
	f := NewFormatter(opts...)
	if err := obj.AppendWKT(f); err != nil {
		return "", err
	}
	return f.WKT()
}

// MustExport is Export for call sites that know rendering cannot fail.
func MustExport(obj Exportable, opts ...FormatterOption) string {
	s, err := Export(obj, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
