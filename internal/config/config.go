// Package config provides configuration loading and management for the marker coordinator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arenarium/mapmarkers/internal/coordinator"
	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/sampler"
	"github.com/arenarium/mapmarkers/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read through viper
const EnvPrefix = "MAPMARKERS"

const (
	// DefaultRadius is the maximum offset in degrees of a generated marker from its center
	DefaultRadius = 10.0

	// DefaultCount is the number of sampler iterations per update
	DefaultCount = 64

	// DefaultLimit is the maximum number of markers kept per update
	DefaultLimit = 64

	// DefaultAddress is the listen address of the HTTP control surface
	DefaultAddress = ":8080"

	// DefaultSpanLat is the latitude extent of the initial terminal viewport
	DefaultSpanLat = 40.0

	// DefaultSpanLng is the longitude extent of the initial terminal viewport
	DefaultSpanLng = 80.0
)

var (
	// DefaultCenters are the cluster centers markers are generated around
	DefaultCenters = []geo.LatLng{
		{Lat: 51.505, Lng: -0.09},
		{Lat: 45, Lng: 22},
		{Lat: 52.52, Lng: 13.409},
		{Lat: 48.8566, Lng: 2.3522},
	}

	// DefaultMapCenter is the initial centre of the terminal map (London)
	DefaultMapCenter = geo.LatLng{Lat: 51.505, Lng: -0.09}

	// DefaultPinStyle is the style of the pin slot
	DefaultPinStyle = marker.Style{Height: 16, Width: 16, Radius: 8}

	// DefaultTooltipStyle is the style of the tooltip slot
	DefaultTooltipStyle = marker.Style{Height: 64, Width: 96, Margin: 8, Radius: 12}

	// DefaultPopupStyle is the style of the popup slot
	DefaultPopupStyle = marker.Style{Height: 128, Width: 156, Margin: 8, Radius: 16}
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return errors.New("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Sampler    *SamplerConfig    `yaml:"sampler,omitempty"`
	Styles     *StylesConfig     `yaml:"styles,omitempty"`
	Viewport   *ViewportConfig   `yaml:"viewport,omitempty"`
	Resolution *ResolutionConfig `yaml:"resolution,omitempty"`
	Server     *ServerConfig     `yaml:"server,omitempty"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// SamplerConfig defines the deterministic marker generator.
// Zero values select the defaults, so a radius of 0 cannot be configured here.
type SamplerConfig struct {
	// Seed is the LCG seed, in [1, 2147483646]
	Seed int64 `yaml:"seed,omitempty"`

	// Centers are the cluster centers; a candidate picks centers[index mod len]
	Centers []geo.LatLng `yaml:"centers,omitempty"`

	// Radius is the maximum offset in degrees from a center
	Radius float64 `yaml:"radius,omitempty"`

	// Count is the number of iterations per update
	Count int `yaml:"count,omitempty"`

	// Limit is the maximum number of markers kept per update
	Limit int `yaml:"limit,omitempty"`
}

// StylesConfig defines the presentation hints passed along with each slot
type StylesConfig struct {
	Pin     *marker.Style `yaml:"pin,omitempty"`
	Tooltip *marker.Style `yaml:"tooltip,omitempty"`
	Popup   *marker.Style `yaml:"popup,omitempty"`
}

// ViewportConfig defines the initial viewport of each engine
type ViewportConfig struct {
	// Bounds is the initial viewport of the headless engine behind the HTTP API.
	// Defaults to the whole world.
	Bounds *geo.Bounds `yaml:"bounds,omitempty"`

	// Center is the initial centre of the terminal map
	Center *geo.LatLng `yaml:"center,omitempty"`

	// SpanLat and SpanLng are the initial extent of the terminal map in degrees
	SpanLat float64 `yaml:"spanLat,omitempty"`
	SpanLng float64 `yaml:"spanLng,omitempty"`
}

// ResolutionConfig defines how engines pull slot bodies from the accessors
type ResolutionConfig struct {
	// Concurrency bounds the number of accessors invoked at once
	Concurrency int `yaml:"concurrency,omitempty"`

	// InitialInterval is the first retry delay for elements that are not mounted yet (e.g., "5ms")
	InitialInterval string `yaml:"initialInterval,omitempty"`

	// MaxInterval caps the retry delay (e.g., "100ms")
	MaxInterval string `yaml:"maxInterval,omitempty"`

	// MaxElapsedTime bounds the total time spent retrying one slot (e.g., "2s")
	MaxElapsedTime string `yaml:"maxElapsedTime,omitempty"`
}

// ServerConfig defines the HTTP control surface
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// Default returns a configuration with every section set to its default values
func Default() *Config {
	pin, tooltip, popup := DefaultPinStyle, DefaultTooltipStyle, DefaultPopupStyle
	bounds, center := geo.WorldBounds, DefaultMapCenter
	return &Config{
		Sampler: &SamplerConfig{
			Seed:    sampler.DefaultSeed,
			Centers: append([]geo.LatLng(nil), DefaultCenters...),
			Radius:  DefaultRadius,
			Count:   DefaultCount,
			Limit:   DefaultLimit,
		},
		Styles: &StylesConfig{Pin: &pin, Tooltip: &tooltip, Popup: &popup},
		Viewport: &ViewportConfig{
			Bounds:  &bounds,
			Center:  &center,
			SpanLat: DefaultSpanLat,
			SpanLng: DefaultSpanLng,
		},
		Resolution: &ResolutionConfig{
			Concurrency:     engine.DefaultPullConcurrency,
			InitialInterval: engine.DefaultInitialInterval.String(),
			MaxInterval:     engine.DefaultMaxInterval.String(),
			MaxElapsedTime:  engine.DefaultMaxElapsedTime.String(),
		},
		Server: &ServerConfig{Address: DefaultAddress},
	}
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, errors.New("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	if err := c.Settings().Validate(); err != nil {
		return err
	}

	if err := c.Resolution.validate(); err != nil {
		return fmt.Errorf("resolution: %w", err)
	}

	if err := c.Viewport.validate(); err != nil {
		return fmt.Errorf("viewport: %w", err)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

// Settings converts the sampler and style sections into coordinator settings
func (c *Config) Settings() coordinator.Settings {
	return coordinator.Settings{
		Sampler: sampler.Params{
			Seed:    c.Sampler.GetSeed(),
			Centers: c.Sampler.GetCenters(),
			Radius:  c.Sampler.GetRadius(),
			Count:   c.Sampler.GetCount(),
			Limit:   c.Sampler.GetLimit(),
		},
		Styles: coordinator.Styles{
			Pin:     c.Styles.GetPin(),
			Tooltip: c.Styles.GetTooltip(),
			Popup:   c.Styles.GetPopup(),
		},
	}
}

// PullerOptions converts the resolution section into body puller options.
// Validate must have been called first; unparsable durations fall back to the defaults.
func (c *Config) PullerOptions() []engine.PullerOption {
	initial, maxInterval, maxElapsed := c.Resolution.durations()
	return []engine.PullerOption{
		engine.WithConcurrency(c.Resolution.GetConcurrency()),
		engine.WithRetry(initial, maxInterval, maxElapsed),
	}
}

// GetAddress returns the listen address, using DefaultAddress if not specified
func (c *Config) GetAddress() string {
	if c.Server == nil || c.Server.Address == "" {
		return DefaultAddress
	}
	return c.Server.Address
}

// GetSeed returns the seed, using the sampler default if not specified
func (s *SamplerConfig) GetSeed() int64 {
	if s == nil || s.Seed == 0 {
		return sampler.DefaultSeed
	}
	return s.Seed
}

// GetCenters returns a copy of the centers, using DefaultCenters if none are specified
func (s *SamplerConfig) GetCenters() []geo.LatLng {
	if s == nil || len(s.Centers) == 0 {
		return append([]geo.LatLng(nil), DefaultCenters...)
	}
	return append([]geo.LatLng(nil), s.Centers...)
}

// GetRadius returns the radius, using DefaultRadius if not specified
func (s *SamplerConfig) GetRadius() float64 {
	if s == nil || s.Radius == 0 {
		return DefaultRadius
	}
	return s.Radius
}

// GetCount returns the iteration count, using DefaultCount if not specified
func (s *SamplerConfig) GetCount() int {
	if s == nil || s.Count == 0 {
		return DefaultCount
	}
	return s.Count
}

// GetLimit returns the marker cap, using DefaultLimit if not specified
func (s *SamplerConfig) GetLimit() int {
	if s == nil || s.Limit == 0 {
		return DefaultLimit
	}
	return s.Limit
}

// GetPin returns the pin style, using DefaultPinStyle if not specified
func (s *StylesConfig) GetPin() marker.Style {
	if s == nil || s.Pin == nil {
		return DefaultPinStyle
	}
	return *s.Pin
}

// GetTooltip returns the tooltip style, using DefaultTooltipStyle if not specified
func (s *StylesConfig) GetTooltip() marker.Style {
	if s == nil || s.Tooltip == nil {
		return DefaultTooltipStyle
	}
	return *s.Tooltip
}

// GetPopup returns the popup style, using DefaultPopupStyle if not specified
func (s *StylesConfig) GetPopup() marker.Style {
	if s == nil || s.Popup == nil {
		return DefaultPopupStyle
	}
	return *s.Popup
}

// GetBounds returns the initial headless viewport, using the whole world if not specified
func (v *ViewportConfig) GetBounds() geo.Bounds {
	if v == nil || v.Bounds == nil {
		return geo.WorldBounds
	}
	return *v.Bounds
}

// GetMapBounds returns the initial terminal viewport built from the center and span
func (v *ViewportConfig) GetMapBounds() geo.Bounds {
	center, spanLat, spanLng := DefaultMapCenter, DefaultSpanLat, DefaultSpanLng
	if v != nil {
		if v.Center != nil {
			center = *v.Center
		}
		if v.SpanLat > 0 {
			spanLat = v.SpanLat
		}
		if v.SpanLng > 0 {
			spanLng = v.SpanLng
		}
	}
	return geo.AroundCenter(center, spanLat, spanLng)
}

func (v *ViewportConfig) validate() error {
	if v == nil {
		return nil
	}
	if v.Bounds != nil {
		if err := v.Bounds.Validate(); err != nil {
			return fmt.Errorf("bounds: %w", err)
		}
	}
	if v.Center != nil {
		if err := v.Center.Validate(); err != nil {
			return fmt.Errorf("center: %w", err)
		}
	}
	if v.SpanLat < 0 || v.SpanLng < 0 {
		return fmt.Errorf("spanLat and spanLng must not be negative, got %f and %f", v.SpanLat, v.SpanLng)
	}
	return nil
}

// GetConcurrency returns the pull concurrency, using the engine default if not specified
func (r *ResolutionConfig) GetConcurrency() int {
	if r == nil || r.Concurrency <= 0 {
		return engine.DefaultPullConcurrency
	}
	return r.Concurrency
}

func (r *ResolutionConfig) durations() (initial, maxInterval, maxElapsed time.Duration) {
	if r == nil {
		return engine.DefaultInitialInterval, engine.DefaultMaxInterval, engine.DefaultMaxElapsedTime
	}
	return parseDurationOr(r.InitialInterval, engine.DefaultInitialInterval),
		parseDurationOr(r.MaxInterval, engine.DefaultMaxInterval),
		parseDurationOr(r.MaxElapsedTime, engine.DefaultMaxElapsedTime)
}

func (r *ResolutionConfig) validate() error {
	if r == nil {
		return nil
	}
	if r.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", r.Concurrency)
	}
	fields := []struct {
		name  string
		value string
	}{
		{"initialInterval", r.InitialInterval},
		{"maxInterval", r.MaxInterval},
		{"maxElapsedTime", r.MaxElapsedTime},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("%s must be a valid duration (e.g., '5ms', '2s'): %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", f.name, f.value)
		}
	}
	initial, maxInterval, _ := r.durations()
	if initial > maxInterval {
		return fmt.Errorf("initialInterval %s exceeds maxInterval %s", initial, maxInterval)
	}
	return nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
