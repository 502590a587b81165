package anchorhash

// Option is a functional option configuring an Anchor at construction
// time. Strategy selection happens exactly once in NewAnchor; options have
// no effect after the engine is built.
type Option func(*config)

type config struct {
	hardwareHash bool
	fastRange    bool
}

func defaultConfig() *config {
	return &config{
		hardwareHash: true,
		fastRange:    true,
	}
}

// WithHardwareHash toggles the hardware-accelerated (CRC-32C) bucket remix
// hash. Enabled by default. When enabled but the running CPU lacks a CRC32
// instruction, the engine transparently falls back to the portable
// FNV-1a variant, so disabling this is only useful for reproducing the
// portable mapping on hardware that would otherwise accelerate it.
func WithHardwareHash(enabled bool) Option {
	return func(c *config) {
		c.hardwareHash = enabled
	}
}

// WithFastRange toggles the division-free multiply-shift range reducer.
// Enabled by default. When disabled the engine uses exact modulo
// reduction instead.
func WithFastRange(enabled bool) Option {
	return func(c *config) {
		c.fastRange = enabled
	}
}
