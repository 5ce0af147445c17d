package telemetry

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// DefaultServiceName identifies the process in exported telemetry
	DefaultServiceName = "mapmarkers"

	// DefaultEndpoint is the OTLP/HTTP collector address
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling samples one trace in twenty. Update traces fan out into one span per
	// body pull, so full sampling is costly on dense viewports.
	DefaultSampling = 0.05

	// ExporterOTLP pushes metrics to the collector endpoint
	ExporterOTLP = "otlp"

	// ExporterPrometheus exposes metrics for scraping at /metrics
	ExporterPrometheus = "prometheus"

	unknownVersion = "unknown"
)

// Config is the telemetry section of the session configuration.
// Nothing is exported unless Enabled is set along with the signal's own Enabled flag.
type Config struct {
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to DefaultServiceName
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to "unknown"; the serve command fills in the build version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is host:port of an OTLP/HTTP collector. The exporters append /v1/traces and /v1/metrics.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure uses plain HTTP towards the collector
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the root trace ratio in (0, 1]. Child spans follow their parent.
	Sampling *float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporters lists "otlp" and/or "prometheus". Empty means otlp only.
	Exporters []string `yaml:"exporters,omitempty"`
}

// GetServiceName returns the service name or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version or "unknown"
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return unknownVersion
	}
	return c.ServiceVersion
}

// GetEndpoint returns the collector endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetInsecure reports whether the collector is reached over plain HTTP
func (c *Config) GetInsecure() bool {
	return c.Insecure
}

// GetSampling returns the sampling ratio or DefaultSampling
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == nil {
		return DefaultSampling
	}
	return *c.Sampling
}

// GetExporters returns the configured exporters or ["otlp"]
func (c *MetricsConfig) GetExporters() []string {
	if c == nil || len(c.Exporters) == 0 {
		return []string{ExporterOTLP}
	}
	return c.Exporters
}

// HasExporter reports whether the named exporter is configured
func (c *MetricsConfig) HasExporter(name string) bool {
	return slices.Contains(c.GetExporters(), name)
}

// Validate checks the enabled sections. A nil or disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}

// Validate checks the sampling ratio when tracing is enabled
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if sampling := c.GetSampling(); sampling <= 0 || sampling > 1.0 {
		return fmt.Errorf("sampling must be greater than 0.0 and at most 1.0, got %f", sampling)
	}
	return nil
}

// Validate checks exporter names when metrics are enabled
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	for _, name := range c.Exporters {
		if name != ExporterOTLP && name != ExporterPrometheus {
			return fmt.Errorf("unknown exporter %q, must be %q or %q", name, ExporterOTLP, ExporterPrometheus)
		}
	}
	return nil
}
