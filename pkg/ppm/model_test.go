package ppm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		opts []Option
	}{
		{name: "negative order", opts: []Option{WithMaxOrder(-1)}},
		{name: "inverted alphabet", opts: []Option{WithAlphabet(126, 32)}},
		{name: "empty fallback", opts: []Option{WithFallback("")}},
		{name: "fill outside alphabet", opts: []Option{WithFill('\n')}},
		{name: "alphabet without space", opts: []Option{WithAlphabet('a', 'z'), WithFill('a')}},
		{name: "negative escape", opts: []Option{WithEscape(-0.1, 0.2)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewModel(tc.opts...)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if diff := cmp.Diff(DefaultConfig(), m.Config()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if m.History() != "    " {
		t.Errorf("expected history of four spaces, got %q", m.History())
	}
}

func TestWithConfigThenOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxOrder = 6
	m := newTestModel(t, WithConfig(cfg), WithMaxOrder(3))
	if m.Config().MaxOrder != 3 {
		t.Errorf("expected later option to win, got order %d", m.Config().MaxOrder)
	}
}

func TestModelsAreIndependent(t *testing.T) {
	m1 := newTrainedModel(t, "aaaa")
	m2 := newTrainedModel(t, "bbbb")

	if _, ok := countsOf(m1, "")['b']; ok {
		t.Error("model 1 learned from model 2's corpus")
	}
	if _, ok := countsOf(m2, "")['a']; ok {
		t.Error("model 2 learned from model 1's corpus")
	}
}

func TestModelStats(t *testing.T) {
	m := newTrainedModel(t, "aabc", WithMaxOrder(2))

	want := ModelStats{
		ContextsPerOrder: []int{1, 3, 4},
		Continuations:    11,
		Observations:     4,
	}
	if diff := cmp.Diff(want, m.Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestModelClose(t *testing.T) {
	m, err := NewModel(WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Train(context.Background(), strings.NewReader("hello world")); err != nil {
		t.Fatal(err)
	}
	m.Close()

	stats := m.Stats()
	if stats.Observations != 0 || stats.Continuations != 0 {
		t.Errorf("expected empty tables after Close, got %+v", stats)
	}
}

func TestSetLogger(t *testing.T) {
	m := newTestModel(t)
	var buf bytes.Buffer
	m.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	m.SetLogger(nil) // ignored

	if _, err := m.Train(context.Background(), strings.NewReader("abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Generate(context.Background(), "a", WithMaxChars(3)); err != nil {
		t.Fatal(err)
	}
	logs := buf.String()
	for _, want := range []string{"Training completed", "accepted=3", "Generation finished", "stop_reason="} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected logs to contain %q, got:\n%s", want, logs)
		}
	}
}
