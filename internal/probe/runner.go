package probe

import (
	"context"
	"io"
	"log/slog"
	"time"

	"asrprobe/internal/config"
	"asrprobe/internal/confirm"
	"asrprobe/internal/console"
	"asrprobe/internal/domain"
)

const realModeQuestion = "Continue with a real-mode conversion?"

type HealthChecker interface {
	Check(ctx context.Context) domain.HealthStatus
}

type Converter interface {
	Convert(ctx context.Context, req domain.ConversionRequest) domain.Outcome
}

type MetricsObserver interface {
	ObserveHealth(reachable bool)
	ObserveOutcome(kind string, simulate bool)
}

type State int

const (
	StateInit State = iota
	StateHealthChecked
	StateCompleted
	// StateAborted is reached when the health check fails or the mode is
	// unknown; no conversion is sent.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateHealthChecked:
		return "health_checked"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type Attempt struct {
	Request  domain.ConversionRequest
	Outcome  domain.Outcome
	Duration time.Duration
}

type Report struct {
	State    State
	Health   domain.HealthStatus
	Attempts []Attempt
	// Declined is set when the real-mode follow-up was not confirmed.
	Declined   bool
	ConfirmErr error
}

// Succeeded reports whether the service was healthy, at least one conversion
// ran, and every conversion succeeded.
func (r Report) Succeeded() bool {
	if r.State != StateCompleted || !r.Health.Reachable || len(r.Attempts) == 0 {
		return false
	}
	for _, a := range r.Attempts {
		if !a.Outcome.OK() {
			return false
		}
	}
	return true
}

type Options struct {
	Mode       config.Mode
	Request    domain.ConversionRequest
	VendorName string
	BaseURL    string
	HealthURL  string
	ConvertURL string
	StartHint  string
}

type Dependencies struct {
	Health    HealthChecker
	Converter Converter
	Confirmer confirm.Confirmer
	Printer   *console.Printer
	Metrics   MetricsObserver
	Logger    *slog.Logger
}

type Runner struct {
	opts      Options
	health    HealthChecker
	converter Converter
	confirmer confirm.Confirmer
	printer   *console.Printer
	metrics   MetricsObserver
	logger    *slog.Logger
}

func New(opts Options, deps Dependencies) *Runner {
	if deps.Health == nil || deps.Converter == nil {
		panic("probe: health checker and converter are required")
	}
	if deps.Confirmer == nil {
		deps.Confirmer = confirm.AlwaysNo
	}
	if deps.Printer == nil {
		deps.Printer = console.New(io.Discard)
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		opts:      opts,
		health:    deps.Health,
		converter: deps.Converter,
		confirmer: deps.Confirmer,
		printer:   deps.Printer,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Run performs the health check and, if the service is reachable, the
// conversions the mode calls for. Remote faults never escape as errors; they
// are printed and recorded in the report.
func (r *Runner) Run(ctx context.Context) Report {
	report := Report{State: StateInit}

	r.printer.Title(r.opts.VendorName)
	r.printer.HealthChecking(r.opts.HealthURL)
	report.Health = r.health.Check(ctx)
	r.printer.Health(report.Health)
	if r.metrics != nil {
		r.metrics.ObserveHealth(report.Health.Reachable)
	}

	if !report.Health.Reachable {
		r.logger.Warn("health_check_failed",
			"base_url", r.opts.BaseURL,
			"status", report.Health.HTTPStatus,
			"error", report.Health.Err,
		)
		r.printer.Unhealthy(r.opts.BaseURL, r.opts.StartHint)
		report.State = StateAborted
		return report
	}
	report.State = StateHealthChecked
	r.logger.Info("health_check_passed", "base_url", r.opts.BaseURL, "service", report.Health.Service)

	switch r.opts.Mode {
	case config.ModeReal:
		report.Attempts = append(report.Attempts, r.attempt(ctx, false))
	case config.ModeSimulate:
		report.Attempts = append(report.Attempts, r.attempt(ctx, true))
	case config.ModeSimulateThenReal:
		report.Attempts = append(report.Attempts, r.attempt(ctx, true))

		r.printer.QuotaWarning(r.opts.VendorName)
		ok, err := r.confirmer.Confirm(ctx, realModeQuestion)
		if err != nil {
			r.logger.Warn("confirmation_failed", "error", err)
			report.ConfirmErr = err
		}
		if ok {
			r.printer.Section("Starting real mode test...")
			report.Attempts = append(report.Attempts, r.attempt(ctx, false))
		} else {
			report.Declined = true
			r.printer.Skipped()
		}
	default:
		r.logger.Error("unknown_probe_mode", "mode", string(r.opts.Mode))
		report.State = StateAborted
		return report
	}

	report.State = StateCompleted
	return report
}

func (r *Runner) attempt(ctx context.Context, simulate bool) Attempt {
	req := r.opts.Request
	req.Simulate = simulate

	r.printer.Attempt(r.opts.ConvertURL, req)
	started := time.Now()
	outcome := r.converter.Convert(ctx, req)
	duration := time.Since(started)

	r.printer.Outcome(outcome)
	r.printer.Verdict(simulate, outcome.OK())
	if r.metrics != nil {
		r.metrics.ObserveOutcome(string(outcome.Kind()), simulate)
	}

	level := slog.LevelInfo
	if !outcome.OK() {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "conversion_finished",
		"simulate", simulate,
		"outcome", string(outcome.Kind()),
		"detail", domain.Describe(outcome),
		"duration_ms", duration.Milliseconds(),
	)

	return Attempt{Request: req, Outcome: outcome, Duration: duration}
}
