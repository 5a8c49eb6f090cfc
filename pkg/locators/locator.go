// Package locators resolves the filesystem locations the core needs but
// does not own the policy for: per-engine model directories, scoped cache
// directories, and the demux executable. The core's only requirement on
// these (spec.md §4.K) is that they are idempotent and thread-safe to
// acquire; DefaultLocator is one concrete implementation satisfying that,
// not the only one a caller may plug in.
package locators

// Locator is the resource-locator contract the core consumes.
type Locator interface {
	// ModelsDir returns the per-engine model directory, creating it if
	// necessary. engineName is opaque to the core; each engine chooses its
	// own layout inside the returned directory.
	ModelsDir(engineName string) (string, error)

	// CacheDir returns a scoped cache directory for purpose (e.g.
	// "ffmpeg"), creating it if necessary, plus a release function the
	// caller invokes when done with the directory. release is safe to call
	// more than once and never returns an error; it exists so a locator
	// backed by a refcounted or locked resource can coordinate concurrent
	// acquisitions without the core needing to know how.
	CacheDir(purpose string) (path string, release func(), err error)

	// DemuxExecutable returns the path to the demux binary, resolving (and
	// on some locators, fetching) it on first call. Idempotent: repeat
	// calls return the same path without re-resolving.
	DemuxExecutable() (string, error)
}
