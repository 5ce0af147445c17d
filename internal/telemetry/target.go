package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Target names the reporting service and the OTLP collector its signals go to
type Target struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Insecure       bool
}

// DefaultTarget reports as DefaultServiceName to DefaultEndpoint over HTTPS
func DefaultTarget() Target {
	return Target{
		ServiceName:    DefaultServiceName,
		ServiceVersion: unknownVersion,
		Endpoint:       DefaultEndpoint,
	}
}

// Target resolves the defaulted service identity and collector of c
func (c *Config) Target() Target {
	if c == nil {
		return DefaultTarget()
	}
	return Target{
		ServiceName:    c.GetServiceName(),
		ServiceVersion: c.GetServiceVersion(),
		Endpoint:       c.GetEndpoint(),
		Insecure:       c.GetInsecure(),
	}
}

// resource describes the service for both tracing and metrics. resource.New is used
// rather than a merge with resource.Default so the semconv schema URLs cannot conflict.
func (t Target) resource(ctx context.Context) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(t.ServiceName),
			semconv.ServiceVersion(t.ServiceVersion),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
