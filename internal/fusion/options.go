package fusion

// Option mutates an engine Config before construction. Options cover the
// optional collaborators; the geometry fields are set directly on Config.
type Option func(*Config)

// WithProgress sets the per-batch progress callback.
func WithProgress(f func()) Option {
	return func(c *Config) { c.Progress = f }
}

// WithInterrupt sets the cooperative cancellation flag.
func WithInterrupt(i *Interrupt) Option {
	return func(c *Config) { c.Interrupt = i }
}

// WithRegionForward overrides the custom-region prediction adapter.
func WithRegionForward(f RegionForward) Option {
	return func(c *Config) { c.RegionForward = f }
}

// WithGlobalMultiplier sets the uniform-pass blend strength.
func WithGlobalMultiplier(m float64) Option {
	return func(c *Config) { c.GlobalMultiplier = m }
}
