// Package fetch retrieves a target page and builds the snapshot the analysis
// stages consume. Two strategies share one interface: a static HTTP client and
// a scripted headless browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/webaudit/webaudit/internal/page"
)

// ErrFetch wraps any failure to retrieve the target document. The pipeline
// treats it as terminal for the session.
var ErrFetch = errors.New("fetch failed")

// Strategy retrieves one page.
type Strategy interface {
	// Fetch retrieves rawURL and returns a parsed snapshot. Errors wrap
	// ErrFetch when retrieval itself failed.
	Fetch(ctx context.Context, rawURL string) (*page.Page, error)
	// Name identifies the strategy in logs.
	Name() string
}

// ResourceKind buckets an external resource reference by what it loads.
type ResourceKind int

const (
	KindOther ResourceKind = iota
	KindScript
	KindStyle
	KindImage
)

var resourceKindByExt = map[string]ResourceKind{
	".js":    KindScript,
	".mjs":   KindScript,
	".css":   KindStyle,
	".png":   KindImage,
	".jpg":   KindImage,
	".jpeg":  KindImage,
	".gif":   KindImage,
	".svg":   KindImage,
	".ico":   KindImage,
	".webp":  KindImage,
	".avif":  KindImage,
	".bmp":   KindImage,
}

// ClassifyResource buckets a resource URL by its path extension. Query strings
// and fragments are ignored.
func ClassifyResource(rawURL string) ResourceKind {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return KindOther
	}
	if kind, ok := resourceKindByExt[ext]; ok {
		return kind
	}
	return KindOther
}

func fetchError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFetch, fmt.Sprintf(format, args...))
}
