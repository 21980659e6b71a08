package league

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBasePoints sets the points awarded to first place. Subsequent places
// decrement by one, floored at zero.
func WithBasePoints(points int) Option {
	return func(b *Builder) {
		if points > 0 {
			b.basePoints = points
		}
	}
}
