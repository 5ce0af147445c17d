package api

import "github.com/arenarium/mapmarkers/pkg/versions"

// HealthResponse is returned by /health
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadinessResponse is returned by /readiness. It also reports the installed marker
// generation so probes can tell an idle session from one that has drawn markers.
type ReadinessResponse struct {
	Status     string `json:"status" example:"ready"`
	Generation uint64 `json:"generation" example:"3"`
	Markers    int    `json:"markers" example:"64"`
}

// VersionResponse is returned by /version
type VersionResponse = versions.VersionInfo
