package confirm

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseAnswer(t *testing.T) {
	cases := map[string]bool{
		"y":      true,
		"Y":      true,
		" yes\n": true,
		"YES":    true,
		"":       false,
		"n":      false,
		"no":     false,
		"yep":    false,
	}
	for in, want := range cases {
		if got := ParseAnswer(in); got != want {
			t.Fatalf("ParseAnswer(%q): got %v want %v", in, got, want)
		}
	}
}

func TestPromptReadsOneLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("y\nn\n"), &out)

	first, err := p.Confirm(context.Background(), "Run the real conversion?")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	second, err := p.Confirm(context.Background(), "Again?")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !first || second {
		t.Fatalf("unexpected answers: %v %v", first, second)
	}
	if !strings.Contains(out.String(), "Run the real conversion? (y/N): ") {
		t.Fatalf("unexpected prompt: %q", out.String())
	}
}

func TestPromptDefaultsToNoOnEOF(t *testing.T) {
	p := NewPrompt(strings.NewReader(""), &bytes.Buffer{})
	ok, err := p.Confirm(context.Background(), "q")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if ok {
		t.Fatal("expected no on EOF")
	}
}

func TestPromptAcceptsAnswerWithoutNewline(t *testing.T) {
	p := NewPrompt(strings.NewReader("YES"), &bytes.Buffer{})
	ok, _ := p.Confirm(context.Background(), "q")
	if !ok {
		t.Fatal("expected yes")
	}
}

func TestPromptHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	ok, err := NewPrompt(strings.NewReader("y\n"), &out).Confirm(ctx, "q")
	if err == nil || ok {
		t.Fatalf("expected cancellation, got ok=%v err=%v", ok, err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed: %q", out.String())
	}
}

func TestNewSelectsVariant(t *testing.T) {
	yes, err := New("yes", nil, nil)
	if err != nil || yes != AlwaysYes {
		t.Fatalf("unexpected confirmer: %v %v", yes, err)
	}
	no, _ := New("NO", nil, nil)
	if ok, _ := no.Confirm(context.Background(), "q"); ok {
		t.Fatal("expected no")
	}
	prompt, _ := New("prompt", strings.NewReader(""), &bytes.Buffer{})
	if _, isPrompt := prompt.(*Prompt); !isPrompt {
		t.Fatalf("expected *Prompt, got %T", prompt)
	}
	if _, err := New("sometimes", nil, nil); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
