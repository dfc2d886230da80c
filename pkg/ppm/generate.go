package ppm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// StopReason explains why a generation ended.
type StopReason string

const (
	// StopSentenceEnd means a sentence terminator was emitted past the minimum length.
	StopSentenceEnd StopReason = "sentence_end"
	// StopSentenceCap means the running length passed the sentence cap and a
	// period was appended.
	StopSentenceCap StopReason = "sentence_cap"
	// StopMaxChars means the character budget was spent.
	StopMaxChars StopReason = "max_chars"
	// StopMaxIterations means the sampling loop ran out of attempts.
	StopMaxIterations StopReason = "max_iterations"
)

// GenerateResult summarizes a call to GenerateTo.
type GenerateResult struct {
	// Generated is the number of sampled characters written, excluding any
	// period appended by the sentence cap.
	Generated  int
	StopReason StopReason
}

// generateOptions is used by the generate functions to configure default options.
type generateOptions struct {
	maxChars      int
	maxIterations int
	minSentence   int
	maxSentence   int
	stopChance    int
	canEndEarly   bool
}

// GenerateOption is a function that configures generation parameters.
type GenerateOption func(*generateOptions)

// WithMaxChars sets how many characters may be generated.
// Default: 300
func WithMaxChars(n int) GenerateOption {
	return func(o *generateOptions) { o.maxChars = n }
}

// WithMaxIterations bounds the number of sampling attempts, including
// samples that fall outside the alphabet and are skipped.
// Default: 500
func WithMaxIterations(n int) GenerateOption {
	return func(o *generateOptions) { o.maxIterations = n }
}

// WithMinSentence sets the running length that must be exceeded before a
// sentence terminator may end generation.
// Default: 20
func WithMinSentence(n int) GenerateOption {
	return func(o *generateOptions) { o.minSentence = n }
}

// WithMaxSentence sets the running length after which a period is appended
// and generation ends.
// Default: 200
func WithMaxSentence(n int) GenerateOption {
	return func(o *generateOptions) { o.maxSentence = n }
}

// WithStopChance sets the odds, as 1 in n, of stopping at an eligible
// sentence terminator. Values below 1 are treated as 1.
// Default: 3
func WithStopChance(n int) GenerateOption {
	return func(o *generateOptions) { o.stopChance = max(n, 1) }
}

// WithEarlyTermination specifies whether generation may stop at a sentence
// terminator. When disabled only the length limits apply.
func WithEarlyTermination(canEnd bool) GenerateOption {
	return func(o *generateOptions) { o.canEndEarly = canEnd }
}

func defaultGenerateOptions() *generateOptions {
	return &generateOptions{
		maxChars:      300,
		maxIterations: 500,
		minSentence:   20,
		maxSentence:   200,
		stopChance:    3,
		canEndEarly:   true,
	}
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

// GenerateTo resets the history, learns the prompt, then samples a
// continuation and writes it to w one character at a time. Every generated
// character is learned before the next one is drawn, so the model adapts to
// its own output. The prompt itself is not written.
func (m *Model) GenerateTo(ctx context.Context, w io.Writer, prompt string, opts ...GenerateOption) (GenerateResult, error) {
	options := defaultGenerateOptions()
	for _, opt := range opts {
		opt(options)
	}

	m.history.Reset()
	for i := 0; i < len(prompt); i++ {
		m.Observe(prompt[i])
	}

	var res GenerateResult
	sentenceLen := 0
	fallbacks := 0
	out := make([]byte, 1)

	res.StopReason = StopMaxIterations
	for i := 0; i < options.maxIterations; i++ {
		if res.Generated >= options.maxChars {
			res.StopReason = StopMaxChars
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		next, order := m.sample()
		if order == fallbackOrder {
			fallbacks++
		}
		if next < m.config.ASCIIStart || next > m.config.ASCIIEnd {
			continue
		}

		out[0] = next
		if _, err := w.Write(out); err != nil {
			return res, fmt.Errorf("failed to write generated character: %w", err)
		}
		m.Update(next)
		res.Generated++

		if options.canEndEarly && isSentenceEnd(next) && sentenceLen > options.minSentence && m.rng.IntN(options.stopChance) == 0 {
			res.StopReason = StopSentenceEnd
			break
		}
		sentenceLen++
		if sentenceLen > options.maxSentence {
			if _, err := io.WriteString(w, "."); err != nil {
				return res, fmt.Errorf("failed to write sentence terminator: %w", err)
			}
			res.StopReason = StopSentenceCap
			break
		}
	}
	if res.StopReason == StopMaxIterations && res.Generated >= options.maxChars {
		res.StopReason = StopMaxChars
	}

	m.logger.DebugContext(ctx, "Generation finished",
		slog.String("stop_reason", string(res.StopReason)),
		slog.Int("prompt_length", len(prompt)),
		slog.Int("generated_length", res.Generated),
		slog.Int("fallback_draws", fallbacks),
	)
	return res, nil
}

// Generate is a convenience wrapper around GenerateTo that returns the
// continuation as a string.
func (m *Model) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	var builder strings.Builder
	if _, err := m.GenerateTo(ctx, &builder, prompt, opts...); err != nil {
		return builder.String(), err
	}
	return builder.String(), nil
}
