package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultServiceName = "generativelanguage.googleapis.com"
	DefaultBaseURL     = "https://serviceusage.googleapis.com"
	DefaultReadmePath  = "README.md"
	DefaultStartMarker = "<!-- START_QUOTA_OUTPUT -->"
	DefaultEndMarker   = "<!-- END_QUOTA_OUTPUT -->"

	defaultTimeoutSeconds = 30
)

// Project id environment variables, in lookup order.
var ProjectEnvVars = []string{"GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"}

// ErrNoProjectID is returned when no project id can be resolved from any source.
var ErrNoProjectID = errors.New("config: could not determine Google Cloud project id")

type ReportConfig struct {
	ReadmePath  string `json:"readme_path"`
	StartMarker string `json:"start_marker"`
	EndMarker   string `json:"end_marker"`
	Timestamp   bool   `json:"timestamp"`
	MetricsFile string `json:"metrics_file,omitempty"`
}

type Config struct {
	ProjectID      string       `json:"project_id,omitempty"`
	ServiceName    string       `json:"service_name"`
	BaseURL        string       `json:"base_url"`
	TimeoutSeconds int          `json:"timeout_seconds"`
	Report         ReportConfig `json:"report"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    DefaultServiceName,
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: defaultTimeoutSeconds,
		Report: ReportConfig{
			ReadmePath:  DefaultReadmePath,
			StartMarker: DefaultStartMarker,
			EndMarker:   DefaultEndMarker,
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "gemini-quota")
	}
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "gemini-quota")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gemini-quota")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	normalize(&cfg)
	return cfg, nil
}

func normalize(cfg *Config) {
	def := DefaultConfig()
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = def.ServiceName
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.Report.ReadmePath == "" {
		cfg.Report.ReadmePath = def.Report.ReadmePath
	}
	if cfg.Report.StartMarker == "" {
		cfg.Report.StartMarker = def.Report.StartMarker
	}
	if cfg.Report.EndMarker == "" {
		cfg.Report.EndMarker = def.Report.EndMarker
	}
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ProjectLookup discovers a project id from ambient credentials.
type ProjectLookup func(ctx context.Context) (string, error)

// ResolveProjectID picks the project id from, in order: the explicit value,
// the ProjectEnvVars, the config file, and the credentials lookup.
func ResolveProjectID(ctx context.Context, explicit string, cfg Config, lookup ProjectLookup) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	for _, name := range ProjectEnvVars {
		if id := strings.TrimSpace(os.Getenv(name)); id != "" {
			return id, nil
		}
	}
	if cfg.ProjectID != "" {
		return cfg.ProjectID, nil
	}
	if lookup != nil {
		if id, err := lookup(ctx); err == nil && strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id), nil
		}
	}
	return "", ErrNoProjectID
}
