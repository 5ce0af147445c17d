package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
)

// maxMarkerIDLength bounds marker ids taken from the path. Generated ids are decimal
// ranks; longer values cannot name a marker and are rejected before any lookup.
const maxMarkerIDLength = 64

// MarkerIDParam returns the path-unescaped marker id held in URL parameter name.
// The id must be non-empty, free of whitespace and at most maxMarkerIDLength bytes.
func MarkerIDParam(r *http.Request, name string) (string, error) {
	id, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", name)
	}

	switch {
	case strings.TrimSpace(id) == "":
		return "", fmt.Errorf("%s cannot be empty", name)
	case strings.IndexFunc(id, unicode.IsSpace) >= 0:
		return "", fmt.Errorf("%s cannot contain whitespace", name)
	case len(id) > maxMarkerIDLength:
		return "", fmt.Errorf("%s exceeds %d bytes", name, maxMarkerIDLength)
	}
	return id, nil
}
