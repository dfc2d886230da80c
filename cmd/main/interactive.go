package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/CTAG07/tinyslm/pkg/ppm"
)

// maxPromptLength caps a single interactive prompt line. Longer lines are
// answered as consecutive prompts of maxPromptLength-1 bytes.
const maxPromptLength = 512

// scanPrompts splits input into lines, cutting any line that does not fit in
// maxPromptLength-1 bytes into chunks of that size.
func scanPrompts(data []byte, atEOF bool) (int, []byte, error) {
	const chunk = maxPromptLength - 1
	if i := bytes.IndexByte(data, '\n'); i >= 0 && i <= chunk {
		return bufio.ScanLines(data, atEOF)
	}
	if len(data) >= chunk {
		return chunk, data[:chunk], nil
	}
	return bufio.ScanLines(data, atEOF)
}

// interactive reads prompts line by line from in until EOF or "quit".
// Prompts and banners go to console; generated responses go to out, which
// may also capture a transcript.
func interactive(ctx context.Context, model *ppm.Model, in io.Reader, console, out io.Writer, opts []ppm.GenerateOption) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, maxPromptLength), maxPromptLength)
	scanner.Split(scanPrompts)

	_, _ = fmt.Fprintln(console, "\n=== Interactive Mode ===")
	for {
		_, _ = fmt.Fprint(console, "\nPrompt: ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimRight(scanner.Text(), "\r")
		if prompt == "quit" {
			break
		}
		if prompt == "" {
			continue
		}
		if err := generateResponse(ctx, model, out, prompt, opts); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read prompt: %w", err)
	}
	return nil
}
