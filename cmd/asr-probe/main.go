package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"asrprobe/internal/config"
	"asrprobe/internal/confirm"
	"asrprobe/internal/console"
	"asrprobe/internal/domain"
	"asrprobe/internal/health"
	"asrprobe/internal/observability"
	"asrprobe/internal/probe"
	"asrprobe/internal/transcription"
	"asrprobe/internal/upstream/asr"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flags struct {
	envFile       string
	vendor        string
	baseURL       string
	mediaURL      string
	mode          string
	superviseType int
	autoSplit     bool
	yes           bool
	no            bool
	metricsFile   string
	logLevel      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asr-probe: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "asr-probe",
		Short: "Probe an ASR conversion API: health check, then a conversion request",
		Long: `asr-probe checks that the ASR backend answers on /api/asr/health/ and then
sends a conversion request for a media file already uploaded to an object
storage bucket. The result, or the reason it failed, is printed to stdout.

Remote failures never change the exit code; only invalid configuration does.

Examples:
  MEDIA_URL=https://bucket.oss-cn-guangzhou.aliyuncs.com/meeting.mp4 asr-probe
  asr-probe --vendor tencent --media-url https://bucket.cos.ap-shanghai.myqcloud.com/a.wav
  asr-probe --vendor tencent --no            # simulate only, never spend quota
  asr-probe --mode real --metrics-file /var/lib/node_exporter/asrprobe.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, stdin, stdout, stderr)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	fs.StringVar(&f.vendor, "vendor", "", "backend vendor profile: aliyun or tencent (env VENDOR)")
	fs.StringVar(&f.baseURL, "base-url", "", "ASR service base URL (env ASR_BASE_URL)")
	fs.StringVar(&f.mediaURL, "media-url", "", "object storage URL of the media file (env MEDIA_URL)")
	fs.StringVar(&f.mode, "mode", "", "real, simulate or simulate-then-real (env PROBE_MODE)")
	fs.IntVar(&f.superviseType, "supervise-type", 2, "0 unspecified, 1 fixed speaker count, 2 let the algorithm decide (env SUPERVISE_TYPE)")
	fs.BoolVar(&f.autoSplit, "auto-split", true, "split the transcript by speaker turns (env AUTO_SPLIT)")
	fs.BoolVarP(&f.yes, "yes", "y", false, "run the real-mode follow-up without asking")
	fs.BoolVar(&f.no, "no", false, "skip the real-mode follow-up without asking")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run (env METRICS_FILE)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	cmd.MarkFlagsMutuallyExclusive("yes", "no")

	return cmd
}

func run(cmd *cobra.Command, f *flags, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := config.LoadEnvFile(f.envFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	applyFlags(cmd.Flags(), f, &cfg)
	cfg, err = cfg.Resolve()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := newLogger(cfg.LogLevel, stderr)
	metrics := observability.NewMetrics()

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	client := asr.New(cfg.BaseURL, &http.Client{Transport: transport},
		asr.WithObserver(metrics.ObserveUpstream),
		asr.WithLogger(logger),
	)

	confirmer, err := confirm.New(cfg.Confirm, stdin, stdout)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	runner := probe.New(probe.Options{
		Mode:       cfg.Mode,
		Request:    domainRequest(cfg),
		VendorName: cfg.Profile().DisplayName,
		BaseURL:    cfg.BaseURL,
		HealthURL:  client.HealthURL(),
		ConvertURL: client.ConvertURL(),
		StartHint:  cfg.StartHint,
	}, probe.Dependencies{
		Health:    health.NewChecker(client, cfg.HealthTimeout),
		Converter: transcription.New(client, cfg.ConvertTimeout),
		Confirmer: confirmer,
		Printer:   console.New(stdout),
		Metrics:   metrics,
		Logger:    logger,
	})

	report := runner.Run(cmd.Context())
	logger.Info("probe_finished",
		"state", report.State.String(),
		"succeeded", report.Succeeded(),
		"attempts", len(report.Attempts),
	)

	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("metrics_write_failed", "path", cfg.MetricsFile, "error", err)
	}
	return nil
}

func applyFlags(fs *pflag.FlagSet, f *flags, cfg *config.Config) {
	if fs.Changed("vendor") {
		cfg.Vendor = config.Vendor(strings.ToLower(strings.TrimSpace(f.vendor)))
	}
	if fs.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if fs.Changed("media-url") {
		cfg.MediaURL = f.mediaURL
	}
	if fs.Changed("mode") {
		cfg.Mode = config.Mode(strings.ToLower(strings.TrimSpace(f.mode)))
	}
	if fs.Changed("supervise-type") {
		cfg.SuperviseType = domain.SuperviseType(f.superviseType)
	}
	if fs.Changed("auto-split") {
		cfg.AutoSplit = f.autoSplit
	}
	if f.yes {
		cfg.Confirm = config.ConfirmYes
	}
	if f.no {
		cfg.Confirm = config.ConfirmNo
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(f.logLevel))
	}
}

func domainRequest(cfg config.Config) domain.ConversionRequest {
	return domain.ConversionRequest{
		MediaURL:      cfg.MediaURL,
		AutoSplit:     cfg.AutoSplit,
		SuperviseType: cfg.SuperviseType,
	}
}

func newLogger(level string, out io.Writer) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel}))
}
