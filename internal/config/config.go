package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"asrprobe/internal/domain"

	cenv "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

type Vendor string

const (
	VendorAliyun  Vendor = "aliyun"
	VendorTencent Vendor = "tencent"
)

type Mode string

const (
	// ModeReal sends one non-simulated conversion.
	ModeReal Mode = "real"
	// ModeSimulate sends one simulated conversion.
	ModeSimulate Mode = "simulate"
	// ModeSimulateThenReal sends a simulated conversion, then asks before
	// spending quota on a real one.
	ModeSimulateThenReal Mode = "simulate-then-real"
)

const (
	ConfirmPrompt = "prompt"
	ConfirmYes    = "yes"
	ConfirmNo     = "no"
)

// Profile holds per-vendor defaults for the local backend.
type Profile struct {
	DisplayName string
	BaseURL     string
	Mode        Mode
	StartHint   string
}

var profiles = map[Vendor]Profile{
	VendorAliyun: {
		DisplayName: "Alibaba Cloud",
		BaseURL:     "http://localhost:8001",
		Mode:        ModeReal,
		StartHint:   "python manage.py runserver 0.0.0.0:8001",
	},
	VendorTencent: {
		DisplayName: "Tencent Cloud",
		BaseURL:     "http://localhost:8000",
		Mode:        ModeSimulateThenReal,
		StartHint:   "python manage.py runserver 0.0.0.0:8000",
	},
}

func (v Vendor) Profile() (Profile, bool) {
	p, ok := profiles[v]
	return p, ok
}

type Config struct {
	Vendor         Vendor
	BaseURL        string
	MediaURL       string
	AutoSplit      bool
	SuperviseType  domain.SuperviseType
	Mode           Mode
	Confirm        string
	HealthTimeout  time.Duration
	ConvertTimeout time.Duration
	StartHint      string
	MetricsFile    string
	LogLevel       string
}

type envConfig struct {
	Vendor                string `env:"VENDOR" envDefault:"aliyun"`
	BaseURL               string `env:"ASR_BASE_URL"`
	MediaURL              string `env:"MEDIA_URL"`
	AutoSplit             bool   `env:"AUTO_SPLIT" envDefault:"true"`
	SuperviseType         int    `env:"SUPERVISE_TYPE" envDefault:"2"`
	Mode                  string `env:"PROBE_MODE"`
	Confirm               string `env:"CONFIRM" envDefault:"prompt"`
	HealthTimeoutSeconds  int    `env:"HEALTH_TIMEOUT_SECONDS" envDefault:"5"`
	ConvertTimeoutSeconds int    `env:"CONVERT_TIMEOUT_SECONDS" envDefault:"600"`
	StartHint             string `env:"BACKEND_START_HINT"`
	MetricsFile           string `env:"METRICS_FILE"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadEnvFile exports the variables of a dotenv file without overriding the
// ones already set. A missing file is only an error when required.
func LoadEnvFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	return cfg.Resolve()
}

// FromEnv reads the environment without applying vendor defaults, so that
// command-line flags can still override values before Resolve.
func FromEnv() (Config, error) {
	var raw envConfig
	if err := cenv.Parse(&raw); err != nil {
		return Config{}, err
	}

	return Config{
		Vendor:         Vendor(strings.ToLower(strings.TrimSpace(raw.Vendor))),
		BaseURL:        strings.TrimSpace(raw.BaseURL),
		MediaURL:       strings.TrimSpace(raw.MediaURL),
		AutoSplit:      raw.AutoSplit,
		SuperviseType:  domain.SuperviseType(raw.SuperviseType),
		Mode:           Mode(strings.ToLower(strings.TrimSpace(raw.Mode))),
		Confirm:        strings.ToLower(strings.TrimSpace(raw.Confirm)),
		HealthTimeout:  time.Duration(raw.HealthTimeoutSeconds) * time.Second,
		ConvertTimeout: time.Duration(raw.ConvertTimeoutSeconds) * time.Second,
		StartHint:      strings.TrimSpace(raw.StartHint),
		MetricsFile:    strings.TrimSpace(raw.MetricsFile),
		LogLevel:       strings.ToLower(strings.TrimSpace(raw.LogLevel)),
	}, nil
}

// Resolve fills vendor defaults for unset fields and validates the result.
func (c Config) Resolve() (Config, error) {
	profile, ok := c.Vendor.Profile()
	if !ok {
		return Config{}, fmt.Errorf("VENDOR must be %q or %q, got %q", VendorAliyun, VendorTencent, c.Vendor)
	}
	if c.BaseURL == "" {
		c.BaseURL = profile.BaseURL
	}
	if c.Mode == "" {
		c.Mode = profile.Mode
	}
	if c.StartHint == "" {
		c.StartHint = profile.StartHint
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("ASR_BASE_URL must not be empty")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ASR_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	if c.MediaURL == "" {
		return errors.New("MEDIA_URL must not be empty")
	}
	if !c.SuperviseType.Valid() {
		return fmt.Errorf("SUPERVISE_TYPE must be 0, 1 or 2, got %d", c.SuperviseType)
	}
	switch c.Mode {
	case ModeReal, ModeSimulate, ModeSimulateThenReal:
	default:
		return fmt.Errorf("PROBE_MODE must be one of real, simulate, simulate-then-real, got %q", c.Mode)
	}
	switch c.Confirm {
	case ConfirmPrompt, ConfirmYes, ConfirmNo:
	default:
		return fmt.Errorf("CONFIRM must be one of prompt, yes, no, got %q", c.Confirm)
	}
	if c.HealthTimeout <= 0 {
		return errors.New("HEALTH_TIMEOUT_SECONDS must be > 0")
	}
	if c.ConvertTimeout <= 0 {
		return errors.New("CONVERT_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

func (c Config) Profile() Profile {
	p, _ := c.Vendor.Profile()
	return p
}
