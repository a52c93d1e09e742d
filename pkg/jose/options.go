package jose

// Option configures a stage.
type Option func(*options)

type options struct {
	contentType string
}

// WithContentType overrides the "cty" header written by a stage.
// An empty value omits the header.
func WithContentType(cty string) Option {
	return func(o *options) { o.contentType = cty }
}

func newOptions(defaultContentType string, opts []Option) options {
	o := options{contentType: defaultContentType}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
