package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// FetchTimeout bounds the initial HTTP fetch or browser navigation.
	FetchTimeout = 30 * time.Second
	// DeepInspectionTimeout bounds the scripted second pass of the browser strategy.
	DeepInspectionTimeout = 20 * time.Second
	// WaitConditionTimeout bounds non-critical in-page wait conditions. A miss
	// here degrades to partial content, it never fails the run.
	WaitConditionTimeout = 10 * time.Second
)

const (
	// MaxBodyBytes caps how much of a response body is read and parsed.
	MaxBodyBytes = 5 << 20
	// MaxSizedResources caps how many external resources the static strategy
	// issues HEAD requests for when estimating resource sizes.
	MaxSizedResources = 20
	// ResourceRequestsPerSecond paces those resource-sizing requests.
	ResourceRequestsPerSecond = 8
)

// BrowserUserAgent is the user agent sent by the static strategy so responses
// match what a real browser would receive.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
