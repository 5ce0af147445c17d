// Package logging builds the slog handler the mapmarkers commands log through.
//
// Records are written as JSON by default, or as text when LOG_FORMAT=text. Records
// logged with a context that carries a recording span get trace_id and span_id
// attributes so logs can be joined with the update and click traces.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
)

const (
	// FormatJSON writes one JSON object per record
	FormatJSON = "json"
	// FormatText writes logfmt-style key=value records
	FormatText = "text"

	levelKey  = "LOG_LEVEL"
	formatKey = "LOG_FORMAT"
)

// Options selects the handler level and output format
type Options struct {
	Level  slog.Level
	Format string
}

// ParseLevel accepts debug, info, warn, warning and error in any case. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat accepts json and text in any case. Empty means json.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format %q", s)
	}
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT, preferring the prefixed variables
// (for example MAPMARKERS_LOG_LEVEL). Invalid values fall back to the defaults and are
// returned as warnings for the caller to log once a handler exists.
func OptionsFromEnv(prefix string, lookup func(string) string) (Options, []string) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()

	get := func(key string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return lookup(key)
	}

	var warnings []string
	level, err := ParseLevel(get(levelKey))
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	format, err := ParseFormat(get(formatKey))
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	return Options{Level: level, Format: format}, warnings
}

// NewHandler returns a trace-correlating handler writing to w
func NewHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.Format == FormatText {
		h = slog.NewTextHandler(w, hopts)
	} else {
		h = slog.NewJSONHandler(w, hopts)
	}
	return &TraceHandler{Handler: h}
}

// TraceHandler adds the trace and span ids of the span in the record's context
type TraceHandler struct {
	slog.Handler
}

// Handle implements slog.Handler
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
