package ppm

import (
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness used by a Model. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n is always positive.
	IntN(n int) int
}

func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Model is an adaptive character-level predictor. It owns the context tables,
// the history window, and the random source, so independent models can live
// side by side.
//
// A Model is not safe for concurrent use.
type Model struct {
	config  Config
	store   *Store
	history *History
	rng     Rand
	logger  *slog.Logger
}

// NewModel builds an untrained model. Without options it uses DefaultConfig
// and a time-seeded random source.
func NewModel(opts ...Option) (*Model, error) {
	o := &modelOptions{config: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.rng == nil {
		o.rng = newSeededRand(uint64(time.Now().UnixNano()))
	}

	return &Model{
		config:  o.config,
		store:   NewStore(o.config.MaxOrder),
		history: NewHistory(o.config.MaxOrder, o.config.Fill),
		rng:     o.rng,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config {
	return m.config
}

// Store exposes the model's context tables for inspection.
func (m *Model) Store() *Store {
	return m.store
}

// History returns the current history window, oldest character first.
func (m *Model) History() string {
	return m.history.String()
}

// ResetHistory refills the history window with the fill character. The
// learned statistics are kept.
func (m *Model) ResetHistory() {
	m.history.Reset()
}

// Total is shorthand for Store().TotalFor.
func (m *Model) Total(ctx string) (uint32, bool) {
	return m.store.TotalFor(ctx)
}

// Counts is shorthand for Store().CountsFor.
func (m *Model) Counts(ctx string) iter.Seq2[byte, uint32] {
	return m.store.CountsFor(ctx)
}

// Close releases the context tables. The model must not be used afterwards.
func (m *Model) Close() {
	m.store.Clear()
	m.history.Reset()
}
