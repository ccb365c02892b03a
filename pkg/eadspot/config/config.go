// Package config holds the per-run configuration, its YAML defaults
// file, and the eager validation that runs before anything is written.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/archivetools/eadspot/pkg/eadspot/extract"
	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

// Config is the full command-line surface of one run.
type Config struct {
	Input    string
	Kind     extract.Kind
	PathExpr string

	Unique    bool
	EchoText  bool
	Verbosity string

	OutPath      string
	CSVPath      string
	CatalogPath  string
	TrackChanges bool

	VIAF             bool
	GeoNames         bool
	GeoNamesUsername string

	ServiceURL string
	Confidence float64
	Support    int
	Types      string
	ShowScores bool
	ContextPad int
}

// DetectKind infers the document kind from the file extension. The
// path-selected kind is never inferred; it must be requested
// explicitly together with a path expression.
func DetectKind(path string) (extract.Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return extract.KindText, nil
	case ".xml", ".ead":
		return extract.KindEAD, nil
	}
	return "", fmt.Errorf("%w: cannot detect document kind from %q; pass -kind", internalerr.ErrInvalidConfig, path)
}

// Validate checks everything detectable before the run starts, so
// configuration errors never leave partial output behind.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input file required", internalerr.ErrInvalidConfig)
	}
	switch c.Kind {
	case extract.KindText, extract.KindEAD, extract.KindPath:
	default:
		return fmt.Errorf("%w: unknown document kind %q", internalerr.ErrInvalidConfig, c.Kind)
	}
	if c.Kind == extract.KindPath && c.PathExpr == "" {
		return fmt.Errorf("%w: -path expression required for path-selected documents", internalerr.ErrInvalidConfig)
	}
	if c.Kind == extract.KindText && c.OutPath != "" {
		return fmt.Errorf("%w: rewritten-document output not available for plain text input", internalerr.ErrInvalidConfig)
	}
	if c.TrackChanges && c.OutPath == "" {
		return fmt.Errorf("%w: -track-changes requires -out", internalerr.ErrInvalidConfig)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be in [0,1]", internalerr.ErrInvalidConfig)
	}
	if c.Support < 0 {
		return fmt.Errorf("%w: support must be non-negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// CheckProxy inspects the HTTP proxy environment. A missing proxy is a
// hard error only when rewritten-document output was requested; the
// CSV path runs with just a warning. Returns the configured proxy URL
// ("" when none).
func (c *Config) CheckProxy() (string, error) {
	env := httpproxy.FromEnvironment()
	proxy := env.HTTPSProxy
	if proxy == "" {
		proxy = env.HTTPProxy
	}
	if proxy == "" && c.OutPath != "" {
		return "", fmt.Errorf("%w: rewritten-document output requires an HTTP proxy environment (HTTP_PROXY/HTTPS_PROXY)", internalerr.ErrInvalidConfig)
	}
	return proxy, nil
}
