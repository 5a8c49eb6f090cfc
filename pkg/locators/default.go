package locators

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

const (
	envModelsDir = "LIVECAP_MODELS_DIR"
	envCacheDir  = "LIVECAP_CACHE_DIR"
	envFFmpeg    = "LIVECAP_FFMPEG_BIN"
)

// DefaultLocator resolves paths from the LIVECAP_* environment variables,
// falling back to os.UserCacheDir() (XDG_CACHE_HOME on Linux) when unset.
// Every accessor is memoized behind a mutex so concurrent callers resolving
// the same purpose idempotently observe the same path without racing the
// directory creation or demux resolution.
type DefaultLocator struct {
	mu sync.Mutex

	modelsRoot string
	cacheRoot  string

	cacheRefcount map[string]int
	demuxPath     string
	demuxResolved bool
}

// NewDefaultLocator builds a locator with roots resolved eagerly from the
// environment; ModelsDir/CacheDir still create subdirectories lazily on
// first use.
func NewDefaultLocator() (*DefaultLocator, error) {
	modelsRoot, err := resolveRoot(envModelsDir, "models")
	if err != nil {
		return nil, err
	}
	cacheRoot, err := resolveRoot(envCacheDir, "cache")
	if err != nil {
		return nil, err
	}
	return &DefaultLocator{
		modelsRoot:    modelsRoot,
		cacheRoot:     cacheRoot,
		cacheRefcount: map[string]int{},
	}, nil
}

// resolveRoot returns the override env var's value if set, else
// os.UserCacheDir()/livecap/subdir.
func resolveRoot(envVar, subdir string) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", ioError("failed to resolve user cache directory", err)
	}
	return filepath.Join(base, "livecap", subdir), nil
}

// ModelsDir implements Locator.
func (l *DefaultLocator) ModelsDir(engineName string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.modelsRoot, engineName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ioError("failed to create models directory "+dir, err)
	}
	return dir, nil
}

// CacheDir implements Locator. release decrements a per-purpose refcount;
// the directory itself is never deleted on release (caches persist across
// process lifetimes by design), so release only needs to be safe to call,
// not to actually free anything today.
func (l *DefaultLocator) CacheDir(purpose string) (string, func(), error) {
	l.mu.Lock()
	dir := filepath.Join(l.cacheRoot, purpose)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.mu.Unlock()
		return "", nil, ioError("failed to create cache directory "+dir, err)
	}
	l.cacheRefcount[purpose]++
	l.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.cacheRefcount[purpose] > 0 {
				l.cacheRefcount[purpose]--
			}
		})
	}
	return dir, release, nil
}

// DemuxExecutable implements Locator. It resolves, in order: a binary named
// "ffmpeg" inside LIVECAP_FFMPEG_BIN if set, then "ffmpeg" on PATH. It does
// not download anything — spec.md §4.K allows a locator to trigger a
// one-time download here, but the demux step in this repo binds ffmpeg's
// libraries in-process via go-astiav rather than shelling out to a
// standalone binary, so there is nothing for this default locator to fetch.
func (l *DefaultLocator) DemuxExecutable() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.demuxResolved {
		if l.demuxPath == "" {
			return "", unavailableError("no ffmpeg binary found on LIVECAP_FFMPEG_BIN or PATH", nil)
		}
		return l.demuxPath, nil
	}
	l.demuxResolved = true

	if dir := os.Getenv(envFFmpeg); dir != "" {
		candidate := filepath.Join(dir, "ffmpeg")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			l.demuxPath = candidate
			return l.demuxPath, nil
		}
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		l.demuxPath = path
		return l.demuxPath, nil
	}

	return "", unavailableError(fmt.Sprintf("no ffmpeg binary found (checked %s and PATH)", envFFmpeg), nil)
}

var _ Locator = (*DefaultLocator)(nil)
