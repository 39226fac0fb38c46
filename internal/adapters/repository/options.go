package repository

// Option applies a configuration option to the Board.
type Option func(*Board)

// WithMaxListings caps the number of listings kept per cycle. The first n in
// the published order are kept.
func WithMaxListings(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.maxListings = n
		}
	}
}
