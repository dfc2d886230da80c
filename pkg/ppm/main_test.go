package ppm

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTestModel creates a seeded model and releases it with t.Cleanup.
func newTestModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	m, err := NewModel(append([]Option{WithSeed(42)}, opts...)...)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

// newTrainedModel is a convenience helper that also trains the model on data.
func newTrainedModel(t *testing.T, data string, opts ...Option) *Model {
	t.Helper()
	m := newTestModel(t, opts...)
	if _, err := m.Train(context.Background(), strings.NewReader(data)); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return m
}

// countsOf collects the continuations of ctx into a map.
func countsOf(m *Model, ctx string) map[byte]uint32 {
	out := make(map[byte]uint32)
	for c, n := range m.Counts(ctx) {
		out[c] = n
	}
	return out
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
