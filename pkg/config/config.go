package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration.
const DefaultPath = "configs/slidechoreo.yaml"

// Config holds the application configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Render    RenderConfig    `yaml:"render"`
	Highlight HighlightConfig `yaml:"highlight"`
	Workers   int             `yaml:"workers"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Watch     WatchConfig     `yaml:"watch"`
	Slides    []SlideOverride `yaml:"slides"`
}

// PathsConfig locates the pipeline inputs and outputs.
type PathsConfig struct {
	TimingsDir      string `yaml:"timings_dir"`
	ChoreographyDir string `yaml:"choreography_dir"`
	Manifest        string `yaml:"manifest"`
	Session         string `yaml:"session"`
}

// RenderConfig holds settings shared with the video renderer.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// HighlightConfig tunes phrase matching and highlight windows.
type HighlightConfig struct {
	Color           string `yaml:"color"`
	LeadFrames      int    `yaml:"lead_frames"`  // Frames shown before the first matched word
	TrailFrames     int    `yaml:"trail_frames"` // Frames kept after the last matched word
	MaxGap          int    `yaml:"max_gap"`      // Non-matching tokens tolerated between phrase tokens
	MaxMatches      int    `yaml:"max_matches"`
	FallbackStagger int    `yaml:"fallback_stagger"` // Per-phrase offset when no match is found
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	Trace  bool        `yaml:"trace"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds run ledger settings.
type DBConfig struct {
	Path      string   `yaml:"path"`
	Retention Duration `yaml:"retention"` // Runs older than this are pruned on startup; 0 keeps all
}

// WatchConfig holds settings for re-running on changed timing files.
type WatchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			TimingsDir:      "./backend/output/timings",
			ChoreographyDir: "./backend/output/choreography",
			Manifest:        "./backend/output/narration_manifest.json",
			Session:         "./backend/data/session_questions.json",
		},
		Render: RenderConfig{
			FPS: 30,
		},
		Highlight: HighlightConfig{
			Color:           "#E6A100",
			LeadFrames:      8,
			TrailFrames:     2,
			MaxGap:          4,
			MaxMatches:      3,
			FallbackStagger: 10,
		},
		Workers: 4,
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/slidechoreo.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path:      "./data/slidechoreo.db",
			Retention: Duration(30 * Day),
		},
		Watch: WatchConfig{
			Enabled:  false,
			Interval: Duration(2 * time.Second),
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	// Env overrides are applied in memory only
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SLIDECHOREO_TIMINGS_DIR")); v != "" {
		cfg.Paths.TimingsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHOREO_OUTPUT_DIR")); v != "" {
		cfg.Paths.ChoreographyDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHOREO_MANIFEST")); v != "" {
		cfg.Paths.Manifest = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHOREO_SESSION")); v != "" {
		cfg.Paths.Session = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHOREO_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
}

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	h := c.Highlight
	if h.LeadFrames < 0 || h.TrailFrames < 0 || h.MaxGap < 0 || h.FallbackStagger < 0 {
		errs = append(errs, errors.New("highlight frame offsets and max_gap must not be negative"))
	}
	if h.MaxMatches < 1 {
		errs = append(errs, fmt.Errorf("highlight.max_matches must be at least 1, got %d", h.MaxMatches))
	}
	if h.Color != "" && !colorRe.MatchString(h.Color) {
		errs = append(errs, fmt.Errorf("invalid highlight.color '%s': must be '#RRGGBB'", h.Color))
	}
	for i, s := range c.Slides {
		if strings.TrimSpace(s.SlideType) == "" {
			errs = append(errs, fmt.Errorf("slides[%d]: slide_type is required", i))
		}
	}
	return errors.Join(errs...)
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# slidechoreo Configuration
# ------------------------
# Frame values are integers at render.fps.
# Supported Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	reSlides := regexp.MustCompile(`(?m)^slides:`)
	data = reSlides.ReplaceAll(data, []byte("# Cue phrase overrides keyed by slide_type (+ optional question_id)\n# Slide types: intro, case, q_summary, feedback_blocks, thinking_steps\nslides:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
