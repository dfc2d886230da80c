package ppm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Normalize maps a raw byte onto the model alphabet. Bytes inside the
// alphabet pass through, newline and tab fold to a space, and anything else
// is rejected.
func (m *Model) Normalize(b byte) (byte, bool) {
	if b >= m.config.ASCIIStart && b <= m.config.ASCIIEnd {
		return b, true
	}
	if b == '\n' || b == '\t' {
		return foldChar, true
	}
	return 0, false
}

// Observe normalizes b and, if it is accepted, learns it. Rejected bytes leave
// both the tables and the history untouched.
func (m *Model) Observe(b byte) (byte, bool) {
	c, ok := m.Normalize(b)
	if !ok {
		return 0, false
	}
	m.Update(c)
	return c, true
}

// Update records c after every context of the current history, from the
// empty context up to MaxOrder, then slides the history. All orders see the
// history as it was before c arrived.
func (m *Model) Update(c byte) {
	for order := 0; order <= m.config.MaxOrder; order++ {
		m.store.Record(order, m.history.Context(order), c)
	}
	m.history.Push(c)
}

// trainOptions is used by Train to configure progress reporting.
type trainOptions struct {
	total    int64
	progress func(done, total int64)
	every    int64
}

// TrainOption configures a call to Train.
type TrainOption func(*trainOptions)

// WithProgress registers fn to be called every 10 000 accepted characters.
// total is passed through unchanged and is typically the size of the input.
func WithProgress(total int64, fn func(done, total int64)) TrainOption {
	return func(o *trainOptions) {
		o.total = total
		o.progress = fn
	}
}

// WithProgressInterval changes how many accepted characters separate two
// progress callbacks.
func WithProgressInterval(n int64) TrainOption {
	return func(o *trainOptions) {
		if n > 0 {
			o.every = n
		}
	}
}

// Train feeds every byte of r through Observe and returns the number of
// accepted characters. The context is checked between read chunks. On error,
// everything read so far remains learned.
func (m *Model) Train(ctx context.Context, r io.Reader, opts ...TrainOption) (int64, error) {
	// chunkSize is the read buffer; cancellation is checked once per chunk.
	const chunkSize = 8192

	options := &trainOptions{every: 10000}
	for _, opt := range opts {
		opt(options)
	}

	buf := make([]byte, chunkSize)
	var accepted, rejected int64
	for {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if _, ok := m.Observe(b); !ok {
				rejected++
				continue
			}
			accepted++
			if options.progress != nil && accepted%options.every == 0 {
				options.progress(accepted, options.total)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return accepted, fmt.Errorf("training read error: %w", err)
		}
	}

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int64("accepted", accepted),
		slog.Int64("rejected", rejected),
		slog.Int("contexts", m.store.Contexts(m.config.MaxOrder)),
	)
	return accepted, nil
}
