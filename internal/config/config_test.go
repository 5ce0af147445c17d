package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name             string
		yamlContent      string
		skipFileCreation bool
		wantConfig       *Config
		wantErr          string
	}{
		{
			name: "full_config",
			yamlContent: `sampler:
  seed: 7
  centers:
    - {lat: 10, lng: 20}
  radius: 2.5
  count: 32
  limit: 8
styles:
  pin: {height: 10, width: 10, radius: 5}
viewport:
  bounds:
    southWest: {lat: -10, lng: -20}
    northEast: {lat: 10, lng: 20}
  center: {lat: 48.8566, lng: 2.3522}
  spanLat: 10
  spanLng: 20
resolution:
  concurrency: 4
  initialInterval: 10ms
  maxInterval: 50ms
  maxElapsedTime: 1s
server:
  address: ":9090"
telemetry:
  enabled: true
  tracing:
    enabled: true
    sampling: 0.5`,
			wantConfig: &Config{
				Sampler: &SamplerConfig{
					Seed:    7,
					Centers: []geo.LatLng{{Lat: 10, Lng: 20}},
					Radius:  2.5,
					Count:   32,
					Limit:   8,
				},
				Styles: &StylesConfig{
					Pin: &marker.Style{Height: 10, Width: 10, Radius: 5},
				},
				Viewport: &ViewportConfig{
					Bounds: &geo.Bounds{
						SouthWest: geo.LatLng{Lat: -10, Lng: -20},
						NorthEast: geo.LatLng{Lat: 10, Lng: 20},
					},
					Center:  &geo.LatLng{Lat: 48.8566, Lng: 2.3522},
					SpanLat: 10,
					SpanLng: 20,
				},
				Resolution: &ResolutionConfig{
					Concurrency:     4,
					InitialInterval: "10ms",
					MaxInterval:     "50ms",
					MaxElapsedTime:  "1s",
				},
				Server: &ServerConfig{Address: ":9090"},
				Telemetry: &telemetry.Config{
					Enabled: true,
					Tracing: &telemetry.TracingConfig{Enabled: true, Sampling: lo.ToPtr(0.5)},
				},
			},
		},
		{
			name:        "empty_config_uses_defaults",
			yamlContent: `{}`,
			wantConfig:  &Config{},
		},
		{
			name:             "missing_file",
			skipFileCreation: true,
			wantErr:          "failed to evaluate symlinks",
		},
		{
			name:        "invalid_yaml",
			yamlContent: "sampler: [",
			wantErr:     "failed to parse YAML config",
		},
		{
			name: "negative_limit",
			yamlContent: `sampler:
  limit: -1`,
			wantErr: "limit must be positive",
		},
		{
			name: "center_out_of_range",
			yamlContent: `sampler:
  centers:
    - {lat: 95, lng: 0}`,
			wantErr: "centers[0]",
		},
		{
			name: "bad_duration",
			yamlContent: `resolution:
  maxInterval: soon`,
			wantErr: "maxInterval must be a valid duration",
		},
		{
			name: "inverted_bounds",
			yamlContent: `viewport:
  bounds:
    southWest: {lat: 10, lng: 0}
    northEast: {lat: -10, lng: 1}`,
			wantErr: "viewport: bounds",
		},
		{
			name: "telemetry_sampling_out_of_range",
			yamlContent: `telemetry:
  enabled: true
  tracing:
    enabled: true
    sampling: 2`,
			wantErr: "telemetry: tracing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opt Option
			if tt.skipFileCreation {
				opt = WithConfigPath(filepath.Join(t.TempDir(), "non-existent.yaml"))
			} else {
				opt = WithConfigPath(writeConfig(t, tt.yamlContent))
			}

			config, err := LoadConfig(opt)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, config)
		})
	}
}

func TestLoadConfig_PathRequired(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "configs"), 0755))
	configPath := filepath.Join(tmpDir, "configs", "app.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

	linkPath := filepath.Join(tmpDir, "link.yaml")
	require.NoError(t, os.Symlink(configPath, linkPath))

	realPath, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		wantPath string
		wantErr  bool
	}{
		{name: "empty path", path: "", wantErr: true},
		{name: "path traversal at start", path: "../etc/passwd-does-not-exist", wantErr: true},
		{name: "path traversal in middle", path: "config/../../etc/passwd-does-not-exist", wantErr: true},
		{name: "absolute path", path: configPath, wantPath: realPath},
		{name: "symlink is resolved", path: linkPath, wantPath: realPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &loaderConfig{}
			err := WithConfigPath(tt.path)(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cfg.path)
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	settings := cfg.Settings()
	assert.Equal(t, int64(1), settings.Sampler.Seed)
	assert.Equal(t, DefaultCenters, settings.Sampler.Centers)
	assert.InDelta(t, 10.0, settings.Sampler.Radius, 0)
	assert.Equal(t, 64, settings.Sampler.Count)
	assert.Equal(t, 64, settings.Sampler.Limit)
	assert.Equal(t, marker.Style{Height: 16, Width: 16, Radius: 8}, settings.Styles.Pin)
	assert.Equal(t, marker.Style{Height: 64, Width: 96, Margin: 8, Radius: 12}, settings.Styles.Tooltip)
	assert.Equal(t, marker.Style{Height: 128, Width: 156, Margin: 8, Radius: 16}, settings.Styles.Popup)

	assert.Equal(t, geo.WorldBounds, cfg.Viewport.GetBounds())
	center := cfg.Viewport.GetMapBounds().Center()
	assert.InDelta(t, DefaultMapCenter.Lat, center.Lat, 1e-9)
	assert.InDelta(t, DefaultMapCenter.Lng, center.Lng, 1e-9)
	assert.Equal(t, ":8080", cfg.GetAddress())
	assert.Len(t, cfg.PullerOptions(), 2)
}

func TestDefault_DoesNotAliasCenters(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Sampler.Centers[0] = geo.LatLng{Lat: 1, Lng: 1}
	assert.Equal(t, geo.LatLng{Lat: 51.505, Lng: -0.09}, DefaultCenters[0])

	centers := cfg.Sampler.GetCenters()
	centers[0] = geo.LatLng{}
	assert.Equal(t, geo.LatLng{Lat: 1, Lng: 1}, cfg.Sampler.Centers[0])
}

func TestAccessors_NilSections(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	settings := cfg.Settings()
	assert.Equal(t, Default().Settings(), settings)
	assert.Equal(t, DefaultAddress, cfg.GetAddress())
	assert.Equal(t, geo.WorldBounds, cfg.Viewport.GetBounds())
	assert.Equal(t, 16, cfg.Resolution.GetConcurrency())

	initial, maxInterval, maxElapsed := cfg.Resolution.durations()
	assert.Equal(t, 5*time.Millisecond, initial)
	assert.Equal(t, 100*time.Millisecond, maxInterval)
	assert.Equal(t, 2*time.Second, maxElapsed)
}

func TestViewportConfig_GetMapBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *ViewportConfig
		want geo.Bounds
	}{
		{
			name: "nil uses London",
			cfg:  nil,
			want: geo.AroundCenter(DefaultMapCenter, DefaultSpanLat, DefaultSpanLng),
		},
		{
			name: "custom center and span",
			cfg:  &ViewportConfig{Center: &geo.LatLng{Lat: 0, Lng: 0}, SpanLat: 10, SpanLng: 20},
			want: geo.Bounds{
				SouthWest: geo.LatLng{Lat: -5, Lng: -10},
				NorthEast: geo.LatLng{Lat: 5, Lng: 10},
			},
		},
		{
			name: "clamped to the world",
			cfg:  &ViewportConfig{Center: &geo.LatLng{Lat: 85, Lng: 0}, SpanLat: 20, SpanLng: 20},
			want: geo.Bounds{
				SouthWest: geo.LatLng{Lat: 75, Lng: -10},
				NorthEast: geo.LatLng{Lat: 90, Lng: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.GetMapBounds())
		})
	}
}

func TestResolutionConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *ResolutionConfig
		wantErr string
	}{
		{name: "nil", cfg: nil},
		{name: "empty", cfg: &ResolutionConfig{}},
		{name: "valid", cfg: &ResolutionConfig{InitialInterval: "1ms", MaxInterval: "10ms", MaxElapsedTime: "1s"}},
		{name: "negative concurrency", cfg: &ResolutionConfig{Concurrency: -1}, wantErr: "concurrency"},
		{name: "zero duration", cfg: &ResolutionConfig{MaxElapsedTime: "0s"}, wantErr: "maxElapsedTime must be positive"},
		{name: "initial above max", cfg: &ResolutionConfig{InitialInterval: "1s"}, wantErr: "exceeds maxInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateNil(t *testing.T) {
	t.Parallel()

	var cfg *Config
	assert.Error(t, cfg.Validate())
}
