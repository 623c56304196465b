package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		content       string // empty means no file
		env           map[string]string
		validate      func(*testing.T, *Config)
		checkFile     func(*testing.T, string)
		expectedError bool
	}{
		{
			name: "NewFile_Defaults",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30, cfg.Render.FPS)
				assert.Equal(t, "#E6A100", cfg.Highlight.Color)
				assert.Equal(t, 8, cfg.Highlight.LeadFrames)
				assert.Equal(t, 2, cfg.Highlight.TrailFrames)
				assert.Equal(t, 4, cfg.Highlight.MaxGap)
				assert.Equal(t, 3, cfg.Highlight.MaxMatches)
				assert.Equal(t, 2*time.Second, cfg.Watch.Interval.Std())
				assert.Equal(t, 30*Day, cfg.DB.Retention.Std())
			},
			checkFile: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Contains(t, string(content), "fps: 30")
				assert.Contains(t, string(content), "# Cue phrase overrides")
			},
		},
		{
			name:    "ExistingFile_Override",
			content: "render:\n  fps: 60\nhighlight:\n  max_gap: 2\nwatch:\n  interval: 1d\n",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 60, cfg.Render.FPS)
				assert.Equal(t, 2, cfg.Highlight.MaxGap)
				assert.Equal(t, 8, cfg.Highlight.LeadFrames, "unset fields keep defaults")
				assert.Equal(t, Day, cfg.Watch.Interval.Std())
			},
			checkFile: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.NotContains(t, string(content), "lead_frames", "existing file must not be rewritten")
			},
		},
		{
			name:    "Env_Override",
			content: "workers: 2\n",
			env: map[string]string{
				"SLIDECHOREO_TIMINGS_DIR": "/tmp/timings",
				"SLIDECHOREO_WORKERS":     "7",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/timings", cfg.Paths.TimingsDir)
				assert.Equal(t, 7, cfg.Workers)
			},
			checkFile: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.False(t, strings.Contains(string(content), "/tmp/timings"), "env values must not be persisted")
			},
		},
		{
			name:          "Invalid_FPS",
			content:       "render:\n  fps: 0\n",
			expectedError: true,
		},
		{
			name:          "Invalid_Color",
			content:       "highlight:\n  color: orange\n",
			expectedError: true,
		},
		{
			name:          "Slide_Without_Type",
			content:       "slides:\n  - question_id: q1\n",
			expectedError: true,
		},
		{
			name:          "Malformed_YAML",
			content:       "render: [",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "configs", "slidechoreo.yaml")
			if tt.content != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(path)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
			if tt.checkFile != nil {
				tt.checkFile(t, path)
			}
		})
	}
}

func TestGenerateDefault_DoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidechoreo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 9\n"), 0o644))

	require.NoError(t, GenerateDefault(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workers: 9\n", string(content))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "1500ms", want: 1500 * time.Millisecond},
		{in: "2d", want: 2 * Day},
		{in: "1w1d", want: Week + Day},
		{in: "3x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
