package hardcopy

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ResolveOptions carries the embedding application's overrides.
type ResolveOptions struct {
	BinaryPath string
	WindowSize WindowSize
}

// DefaultCandidates lists well-known renderer install locations per GOOS,
// in probe order.
var DefaultCandidates = map[string][]string{
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	},
	"linux": {
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	},
	"windows": {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	},
}

// DefaultCommands are bare names looked up on PATH after the candidates.
var DefaultCommands = []string{
	"chrome",
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
}

// Resolver locates the renderer binary.
type Resolver struct {
	GOOS       string
	Stat       func(name string) (os.FileInfo, error)
	LookPath   func(file string) (string, error)
	Candidates map[string][]string
	Commands   []string
}

// NewResolver returns a resolver for the running platform.
func NewResolver() Resolver {
	return Resolver{
		GOOS:       runtime.GOOS,
		Stat:       os.Stat,
		LookPath:   exec.LookPath,
		Candidates: DefaultCandidates,
		Commands:   DefaultCommands,
	}
}

// Resolve returns the renderer configuration. An explicit binary path is
// trusted verbatim; otherwise candidates are probed and then PATH is
// searched. It fails with KindConfiguration when nothing is found.
func (r Resolver) Resolve(opts ResolveOptions) (RendererConfig, error) {
	size := opts.WindowSize
	if size.IsZero() {
		size = DefaultWindowSize
	}

	if binary := strings.TrimSpace(opts.BinaryPath); binary != "" {
		return RendererConfig{BinaryPath: binary, WindowSize: size}, nil
	}

	binary, err := r.probe()
	if err != nil {
		return RendererConfig{}, err
	}
	return RendererConfig{BinaryPath: binary, WindowSize: size}, nil
}

func (r Resolver) probe() (string, error) {
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	candidates := r.Candidates
	if candidates == nil {
		candidates = DefaultCandidates
	}
	commands := r.Commands
	if commands == nil {
		commands = DefaultCommands
	}

	for _, candidate := range candidates[goos] {
		info, err := stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	for _, name := range commands {
		if path, err := lookPath(name); err == nil && path != "" {
			return path, nil
		}
	}

	return "", NewError(KindConfiguration, fmt.Sprintf("no renderer binary found for %s; set the chrome path explicitly", goos), nil)
}

// Resolve resolves with the platform resolver.
func Resolve(opts ResolveOptions) (RendererConfig, error) {
	return NewResolver().Resolve(opts)
}

// CachedResolver resolves once and returns the same configuration, or the
// same error, on every call.
type CachedResolver struct {
	Resolver Resolver
	Options  ResolveOptions

	once sync.Once
	cfg  RendererConfig
	err  error
}

// Config returns the cached renderer configuration.
func (c *CachedResolver) Config() (RendererConfig, error) {
	c.once.Do(func() {
		c.cfg, c.err = c.Resolver.Resolve(c.Options)
	})
	return c.cfg, c.err
}
