package ppm

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by NewModel when the supplied options describe
// a model that cannot be built.
var ErrInvalidConfig = errors.New("ppm: invalid config")

const (
	// DefaultMaxOrder is the longest context considered by default.
	DefaultMaxOrder = 4
	// DefaultASCIIStart is the first byte of the default alphabet.
	DefaultASCIIStart = 32
	// DefaultASCIIEnd is the last byte of the default alphabet.
	DefaultASCIIEnd = 126
	// DefaultFallback is drawn from uniformly when no context yields a sample.
	DefaultFallback = "etaoinshrdlcumwfgypbvkjxqz ETAOINSHRDLCUMWFGYPBVKJXQZ.,!?;:"
)

// foldChar is what newline and tab normalize to. Every alphabet must contain it.
const foldChar = ' '

// Config holds the tunable parameters of a Model. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// MaxOrder is the longest context, in characters, used for prediction.
	MaxOrder int
	// ASCIIStart and ASCIIEnd bound the accepted alphabet, inclusive. The
	// range must contain the space.
	ASCIIStart byte
	ASCIIEnd   byte
	// Fill is the character history is reset to.
	Fill byte
	// Fallback is the model-independent alphabet used when every order is unseen.
	// Repeated characters weigh more.
	Fallback string
	// EscapeBase and EscapePerOrder are the coefficients of the escape
	// probability: EscapeBase + EscapePerOrder*order/(total+1).
	EscapeBase     float64
	EscapePerOrder float64
}

// DefaultConfig returns the configuration of the reference predictor.
func DefaultConfig() Config {
	return Config{
		MaxOrder:       DefaultMaxOrder,
		ASCIIStart:     DefaultASCIIStart,
		ASCIIEnd:       DefaultASCIIEnd,
		Fill:           ' ',
		Fallback:       DefaultFallback,
		EscapeBase:     0.1,
		EscapePerOrder: 0.2,
	}
}

// Validate reports whether c can back a Model.
func (c Config) Validate() error {
	switch {
	case c.MaxOrder < 0:
		return fmt.Errorf("%w: max order %d is negative", ErrInvalidConfig, c.MaxOrder)
	case c.ASCIIStart > c.ASCIIEnd:
		return fmt.Errorf("%w: alphabet start %d is after end %d", ErrInvalidConfig, c.ASCIIStart, c.ASCIIEnd)
	case c.Fallback == "":
		return fmt.Errorf("%w: fallback alphabet is empty", ErrInvalidConfig)
	case foldChar < c.ASCIIStart || foldChar > c.ASCIIEnd:
		return fmt.Errorf("%w: alphabet %d..%d does not contain the space newlines fold to", ErrInvalidConfig, c.ASCIIStart, c.ASCIIEnd)
	case c.Fill < c.ASCIIStart || c.Fill > c.ASCIIEnd:
		return fmt.Errorf("%w: fill character %q is outside the alphabet", ErrInvalidConfig, c.Fill)
	case c.EscapeBase < 0 || c.EscapePerOrder < 0:
		return fmt.Errorf("%w: escape coefficients must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Option configures a Model at construction time.
type Option func(*modelOptions)

type modelOptions struct {
	config Config
	rng    Rand
}

// WithConfig replaces the whole configuration. Options applied after it
// still take effect.
func WithConfig(c Config) Option {
	return func(o *modelOptions) { o.config = c }
}

// WithMaxOrder sets the longest context length.
// Default: 4
func WithMaxOrder(n int) Option {
	return func(o *modelOptions) { o.config.MaxOrder = n }
}

// WithAlphabet sets the inclusive byte range accepted by the trainer.
// Default: 32..126
func WithAlphabet(start, end byte) Option {
	return func(o *modelOptions) {
		o.config.ASCIIStart = start
		o.config.ASCIIEnd = end
	}
}

// WithFill sets the character history is initialized with.
// Default: ' '
func WithFill(c byte) Option {
	return func(o *modelOptions) { o.config.Fill = c }
}

// WithFallback sets the alphabet drawn from when the model has nothing to offer.
func WithFallback(s string) Option {
	return func(o *modelOptions) { o.config.Fallback = s }
}

// WithEscape sets the escape probability coefficients. Passing zeros
// disables backoff entirely.
// Default: 0.1, 0.2
func WithEscape(base, perOrder float64) Option {
	return func(o *modelOptions) {
		o.config.EscapeBase = base
		o.config.EscapePerOrder = perOrder
	}
}

// WithRand injects the random source used by sampling and generation.
func WithRand(r Rand) Option {
	return func(o *modelOptions) { o.rng = r }
}

// WithSeed seeds a private PCG source. Two models built with the same seed
// and fed the same input produce the same output.
func WithSeed(seed uint64) Option {
	return func(o *modelOptions) { o.rng = newSeededRand(seed) }
}
