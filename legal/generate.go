package legal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single collaborator call
const DefaultTimeout = 30 * time.Second

var (
	// ErrNoText is returned when the collaborator answers without usable text
	ErrNoText = errors.New("no text generated")
	// ErrNoGenerator is returned when no collaborator is configured
	ErrNoGenerator = errors.New("text generation is not configured")
)

// TextGenerator is the external text-generation collaborator.
// Any error means the call produced no result.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGeneratorFunc adapts a function to TextGenerator
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// generate makes one call bounded by timeout. The bound holds even when gen
// ignores ctx; a late answer is discarded.
func generate(ctx context.Context, gen TextGenerator, timeout time.Duration, prompt string) (string, error) {
	if gen == nil {
		return "", ErrNoGenerator
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		text string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		text, err := gen.Generate(ctx, prompt)
		ch <- answer{text: text, err: err}
	}()

	select {
	case a := <-ch:
		if a.err != nil {
			return "", a.err
		}
		if strings.TrimSpace(a.text) == "" {
			return "", ErrNoText
		}
		return a.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("text generation timed out after %s: %w", timeout, ctx.Err())
	}
}
