package console

import (
	"fmt"
	"io"
	"strings"

	"asrprobe/internal/domain"
	"asrprobe/internal/upstream/asr"
)

const (
	rule     = "============================================================"
	thinRule = "------------------------------------------------------------"

	NoTranscript = "No transcript content returned."
)

// Printer narrates a probe run for a human at a terminal.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Title(vendor string) {
	p.println(rule)
	p.printf("ASR API probe - %s\n", vendor)
	p.println(rule)
}

func (p *Printer) Section(title string) {
	p.println()
	p.println(rule)
	p.println(title)
	p.println(rule)
}

func (p *Printer) HealthChecking(url string) {
	p.printf("Health check: %s\n", url)
}

func (p *Printer) Health(h domain.HealthStatus) {
	if h.Reachable {
		p.println("Service healthy")
		p.printf("   Status: %s\n", orNA(h.Status))
		p.printf("   Service: %s\n", orNA(h.Service))
		return
	}

	switch {
	case h.HTTPStatus != 0:
		p.printf("Service unhealthy (HTTP %d)\n", h.HTTPStatus)
		if h.Body != "" {
			p.printf("   Response body: %s\n", h.Body)
		}
	case asr.IsConnectionError(h.Err):
		p.println("Cannot connect to the service")
	case asr.IsTimeout(h.Err):
		p.println("Health check timed out")
	default:
		p.printf("Health check failed: %v\n", h.Err)
	}
}

func (p *Printer) Unhealthy(baseURL, startHint string) {
	p.println()
	p.printf("The ASR service at %s is not available; start the backend first.\n", baseURL)
	if startHint != "" {
		p.printf("Start command: %s\n", startHint)
	}
}

func (p *Printer) Attempt(apiURL string, req domain.ConversionRequest) {
	if req.Simulate {
		p.Section("Conversion - simulate mode")
	} else {
		p.Section("Conversion - real mode")
	}
	p.printf("API URL: %s\n", apiURL)
	p.printf("Media URL: %s\n", req.MediaURL)
	p.printf("Auto split: %t\n", req.AutoSplit)
	p.printf("Supervise type: %d (%s)\n", req.SuperviseType, req.SuperviseType)
	p.printf("Simulate: %t\n", req.Simulate)
	p.println(thinRule)
}

// Outcome renders one conversion outcome. Every domain.Outcome variant has a case.
func (p *Printer) Outcome(o domain.Outcome) {
	switch v := o.(type) {
	case domain.Succeeded:
		p.result(v.Result)
	case domain.ClientError:
		p.println("Request failed - client error (HTTP 400)")
		p.printf("Message: %s\n", v.Message)
	case domain.QuotaExhausted:
		p.println("Request failed - resource package exhausted (HTTP 403)")
		p.printf("Message: %s\n", v.Message)
	case domain.ServerError:
		p.println("Request failed - server error (HTTP 500)")
		p.printf("Message: %s\n", v.Message)
	case domain.Unclassified:
		p.printf("Unexpected status code: %d\n", v.StatusCode)
		p.printf("Response body: %s\n", v.Body)
	case domain.ConnectionFailure:
		p.println("Connection failed - make sure the ASR backend is running")
	case domain.Timeout:
		p.println("Request timed out - check the network and the backend")
	case domain.ParseFailure:
		p.println("Request returned 200 but the body is not a valid JSON object")
		if v.Body != "" {
			p.printf("Response body: %s\n", v.Body)
		}
	case domain.RequestFailure:
		p.printf("Request failed: %v\n", v.Err)
	default:
		p.printf("Unhandled outcome: %T\n", o)
	}
}

func (p *Printer) result(r domain.ConversionResult) {
	p.println("Request succeeded!")
	if r.Simulated {
		p.println("Simulated result:")
		if provenance := r.Provenance(); provenance != "" {
			if r.SourceFile != "" {
				p.printf("   Data source: %s\n", provenance)
			} else {
				p.printf("   %s\n", provenance)
			}
		}
	} else {
		p.println("Real recognition result:")
	}

	p.printf("   Task ID: %s\n", orNA(r.TaskID))
	p.printf("   Text lines: %d\n", r.TextLineCount)
	p.printf("   File saved: %t\n", r.FileSaved)
	p.printf("   Result file: %s\n", orNA(r.ResultFilePath))

	lines, kind := r.Transcript()
	switch kind {
	case domain.TranscriptSpeaker:
		p.println()
		p.println("Speaker diarization:")
		for _, line := range lines {
			p.printf("   %s\n", line)
		}
	case domain.TranscriptText:
		p.println()
		p.println("Transcript:")
		for i, line := range lines {
			p.printf("   %d. %s\n", i+1, line)
		}
	default:
		p.println()
		p.println(NoTranscript)
	}
}

func (p *Printer) Verdict(simulate, ok bool) {
	mode := "Real"
	if simulate {
		mode = "Simulate"
	}
	p.println()
	if ok {
		p.printf("%s mode test passed.\n", mode)
	} else {
		p.printf("%s mode test failed.\n", mode)
	}
}

func (p *Printer) QuotaWarning(vendor string) {
	p.println()
	p.printf("Note: a real conversion consumes the %s ASR resource package and fails once it is exhausted.\n", vendor)
}

func (p *Printer) Skipped() {
	p.println("Skipping real mode test.")
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
