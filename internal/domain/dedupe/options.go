package dedupe

// Option configures a Tracker.
type Option func(*seenSet)

// WithMaxSize caps how many sale ids are remembered. A value <= 0 removes
// the cap.
func WithMaxSize(maxSize int) Option {
	return func(s *seenSet) {
		s.maxSize = maxSize
	}
}
