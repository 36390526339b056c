package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer answers a yes/no question before the probe spends paid quota.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Always answers every question the same way.
type Always bool

const (
	AlwaysYes Always = true
	AlwaysNo  Always = false
)

func (a Always) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}

// Prompt asks on an interactive terminal. The default answer is no.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s (y/N): ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	return ParseAnswer(line), nil
}

// ParseAnswer accepts "y" and "yes" in any case; everything else is no.
func ParseAnswer(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// New selects a Confirmer by name: "prompt", "yes" or "no".
func New(mode string, in io.Reader, out io.Writer) (Confirmer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "prompt":
		return NewPrompt(in, out), nil
	case "yes":
		return AlwaysYes, nil
	case "no":
		return AlwaysNo, nil
	default:
		return nil, fmt.Errorf("unknown confirmation mode %q", mode)
	}
}
