package dedupe

type options struct {
	capacity int
}

// Option applies a configuration option to an Index.
type Option func(*options)

// WithCapacity pre-sizes the index for n fixtures.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
