package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestTranscriptPrefersSpeakerLines(t *testing.T) {
	r := ConversionResult{
		SpeakerTextLines: []string{"A: hello", "B: hi"},
		TextLines:        []string{"hello", "hi"},
	}
	lines, kind := r.Transcript()
	if kind != TranscriptSpeaker {
		t.Fatalf("unexpected kind: %v", kind)
	}
	if strings.Join(lines, "|") != "A: hello|B: hi" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestTranscriptFallsBackToTextLines(t *testing.T) {
	r := ConversionResult{SpeakerTextLines: []string{}, TextLines: []string{"hello"}}
	lines, kind := r.Transcript()
	if kind != TranscriptText || len(lines) != 1 {
		t.Fatalf("unexpected transcript: %q kind=%v", lines, kind)
	}
}

func TestTranscriptNone(t *testing.T) {
	lines, kind := ConversionResult{}.Transcript()
	if kind != TranscriptNone || lines != nil {
		t.Fatalf("unexpected transcript: %q kind=%v", lines, kind)
	}
}

func TestProvenance(t *testing.T) {
	cases := []struct {
		name   string
		result ConversionResult
		want   string
	}{
		{"source file wins", ConversionResult{Simulated: true, SourceFile: "mock.json", Note: "n"}, "mock.json"},
		{"note fallback", ConversionResult{Simulated: true, Note: "canned data"}, "canned data"},
		{"nothing to show", ConversionResult{Simulated: true}, ""},
		{"real result", ConversionResult{SourceFile: "mock.json"}, ""},
	}
	for _, tc := range cases {
		if got := tc.result.Provenance(); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestOnlySucceededIsOK(t *testing.T) {
	outcomes := []Outcome{
		Succeeded{},
		ClientError{},
		QuotaExhausted{},
		ServerError{},
		Unclassified{},
		ConnectionFailure{Err: errors.New("refused")},
		Timeout{Err: errors.New("deadline")},
		ParseFailure{Err: errors.New("bad json")},
		RequestFailure{Err: errors.New("boom")},
	}
	seen := map[OutcomeKind]bool{}
	for _, o := range outcomes {
		if o.OK() != (o.Kind() == KindSucceeded) {
			t.Fatalf("%s: OK() = %v", o.Kind(), o.OK())
		}
		if seen[o.Kind()] {
			t.Fatalf("duplicate kind %s", o.Kind())
		}
		seen[o.Kind()] = true
		if Describe(o) == "unknown outcome" {
			t.Fatalf("%s: Describe has no case", o.Kind())
		}
	}
}

func TestSuperviseTypeValid(t *testing.T) {
	for _, s := range []SuperviseType{0, 1, 2} {
		if !s.Valid() {
			t.Fatalf("%d should be valid", s)
		}
	}
	if SuperviseType(3).Valid() || SuperviseType(-1).Valid() {
		t.Fatal("out of range supervise types should be invalid")
	}
}
