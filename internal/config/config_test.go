package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"asrprobe/internal/domain"
)

var envKeys = []string{
	"VENDOR", "ASR_BASE_URL", "MEDIA_URL", "AUTO_SPLIT", "SUPERVISE_TYPE", "PROBE_MODE",
	"CONFIRM", "HEALTH_TIMEOUT_SECONDS", "CONVERT_TIMEOUT_SECONDS", "BACKEND_START_HINT",
	"METRICS_FILE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadAppliesAliyunDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEDIA_URL", "https://bucket.example.com/video.mp4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Vendor != VendorAliyun || cfg.BaseURL != "http://localhost:8001" || cfg.Mode != ModeReal {
		t.Fatalf("unexpected vendor defaults: %+v", cfg)
	}
	if !cfg.AutoSplit || cfg.SuperviseType != domain.SuperviseAlgorithm {
		t.Fatalf("unexpected request defaults: %+v", cfg)
	}
	if cfg.Confirm != ConfirmPrompt || cfg.LogLevel != "info" {
		t.Fatalf("unexpected client defaults: %+v", cfg)
	}
	if cfg.HealthTimeout != 5*time.Second || cfg.ConvertTimeout != 10*time.Minute {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
	if !strings.Contains(cfg.StartHint, "8001") {
		t.Fatalf("unexpected start hint: %q", cfg.StartHint)
	}
}

func TestLoadTencentProfileAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VENDOR", "Tencent")
	t.Setenv("MEDIA_URL", "https://bucket.cos.ap-shanghai.myqcloud.com/a.wav")
	t.Setenv("ASR_BASE_URL", "http://asr.internal:9000/")
	t.Setenv("SUPERVISE_TYPE", "1")
	t.Setenv("AUTO_SPLIT", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Vendor != VendorTencent || cfg.Mode != ModeSimulateThenReal {
		t.Fatalf("unexpected vendor profile: %+v", cfg)
	}
	if cfg.BaseURL != "http://asr.internal:9000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL)
	}
	if cfg.AutoSplit || cfg.SuperviseType != domain.SuperviseFixedCount {
		t.Fatalf("unexpected request settings: %+v", cfg)
	}
	if cfg.Profile().DisplayName != "Tencent Cloud" {
		t.Fatalf("unexpected profile: %+v", cfg.Profile())
	}
}

func TestResolveKeepsExplicitValues(t *testing.T) {
	cfg, err := Config{
		Vendor:         VendorTencent,
		MediaURL:       "u",
		Mode:           ModeSimulate,
		Confirm:        ConfirmNo,
		StartHint:      "make run",
		HealthTimeout:  time.Second,
		ConvertTimeout: time.Second,
	}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Mode != ModeSimulate || cfg.StartHint != "make run" || cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		Vendor:         VendorAliyun,
		BaseURL:        "http://localhost:8001",
		MediaURL:       "u",
		Mode:           ModeReal,
		Confirm:        ConfirmPrompt,
		HealthTimeout:  time.Second,
		ConvertTimeout: time.Second,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := map[string]func(*Config){
		"MEDIA_URL":       func(c *Config) { c.MediaURL = "" },
		"ASR_BASE_URL":    func(c *Config) { c.BaseURL = "localhost" },
		"SUPERVISE_TYPE":  func(c *Config) { c.SuperviseType = 5 },
		"PROBE_MODE":      func(c *Config) { c.Mode = "twice" },
		"CONFIRM":         func(c *Config) { c.Confirm = "maybe" },
		"HEALTH_TIMEOUT":  func(c *Config) { c.HealthTimeout = 0 },
		"CONVERT_TIMEOUT": func(c *Config) { c.ConvertTimeout = 0 },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("%s: error should name the variable: %v", name, err)
		}
	}
}

func TestLoadRejectsUnknownVendor(t *testing.T) {
	clearEnv(t)
	t.Setenv("VENDOR", "azure")
	t.Setenv("MEDIA_URL", "u")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "VENDOR") {
		t.Fatalf("expected VENDOR error, got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	_ = os.Unsetenv("MEDIA_URL")
	t.Setenv("VENDOR", "tencent")

	path := filepath.Join(t.TempDir(), "probe.env")
	if err := os.WriteFile(path, []byte("MEDIA_URL=https://bucket.example.com/from-file.mp4\nVENDOR=aliyun\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := LoadEnvFile(path, true); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MediaURL != "https://bucket.example.com/from-file.mp4" {
		t.Fatalf("unexpected media url: %q", cfg.MediaURL)
	}
	if cfg.Vendor != VendorTencent {
		t.Fatalf("env file must not override the environment, got %q", cfg.Vendor)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")
	if err := LoadEnvFile(missing, false); err != nil {
		t.Fatalf("optional file: unexpected error %v", err)
	}
	if err := LoadEnvFile(missing, true); err == nil {
		t.Fatal("required file: expected error")
	}
}
