package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wagiedev/procstream-go/internal/errors"
)

// VersionCheckTimeout is the timeout for the `--version` command.
const VersionCheckTimeout = 2 * time.Second

var versionPattern = regexp.MustCompile(`([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// Config holds configuration for binary discovery.
type Config struct {
	// Binary is the executable name looked up on PATH (e.g. "gifsicle").
	Binary string

	// BinaryPath is an explicit path that skips every other strategy.
	BinaryPath string

	// FallbackPaths are checked after PATH. If nil, DefaultFallbackPaths is used.
	FallbackPaths []string

	// MinimumVersion enables the version check when non-empty.
	MinimumVersion string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates a converter binary.
type Discoverer interface {
	// Discover returns the path to the binary or a BinaryNotFoundError.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new binary discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// DefaultFallbackPaths returns the common installation locations for binary.
func DefaultFallbackPaths(binary string) []string {
	paths := []string{
		filepath.Join("/usr/local/bin", binary),
		filepath.Join("/usr/bin", binary),
		filepath.Join("/opt/homebrew/bin", binary),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".local/bin", binary))
	}

	return paths
}

// EnvOverride returns the environment variable that pins the path of binary,
// e.g. PROCSTREAM_GIFSICLE_PATH.
func EnvOverride(binary string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, binary)

	return "PROCSTREAM_" + name + "_PATH"
}

// Discover locates the binary and optionally validates its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	d.log.Debug("Discovering converter binary", "binary", d.binary())

	path, err := d.find()
	if err != nil {
		d.log.Error("Failed to find converter binary", "error", err)

		return "", err
	}

	d.log.Debug("Found converter binary", "path", path)

	d.checkVersion(ctx, path)

	return path, nil
}

func (d *discoverer) binary() string {
	if d.cfg.Binary == "" {
		return "gifsicle"
	}

	return d.cfg.Binary
}

// find walks the discovery strategies in order.
func (d *discoverer) find() (string, error) {
	binary := d.binary()

	// An explicit path is used and only it
	if d.cfg.BinaryPath != "" {
		if isFile(d.cfg.BinaryPath) {
			return d.cfg.BinaryPath, nil
		}

		return "", &errors.BinaryNotFoundError{Binary: binary, SearchedPaths: []string{d.cfg.BinaryPath}}
	}

	searchedPaths := make([]string, 0, 6)

	envVar := EnvOverride(binary)
	if path := os.Getenv(envVar); path != "" {
		searchedPaths = append(searchedPaths, "$"+envVar)

		if isFile(path) {
			d.log.Debug("Using binary from environment", "env", envVar, "path", path)

			return path, nil
		}

		d.log.Warn("Binary from environment does not exist", "env", envVar, "path", path)
	}

	if path, err := exec.LookPath(binary); err == nil {
		d.log.Debug("Found binary in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	fallbacks := d.cfg.FallbackPaths
	if fallbacks == nil {
		fallbacks = DefaultFallbackPaths(binary)
	}

	for _, path := range fallbacks {
		searchedPaths = append(searchedPaths, path)

		if isFile(path) {
			d.log.Debug("Found binary at fallback path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("Converter binary not found in any searched paths", "binary", binary, "searched_paths", searchedPaths)

	return "", &errors.BinaryNotFoundError{Binary: binary, SearchedPaths: searchedPaths}
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// checkVersion logs a warning when the binary is older than MinimumVersion.
// Errors are silently ignored.
func (d *discoverer) checkVersion(ctx context.Context, path string) {
	if d.cfg.MinimumVersion == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	//nolint:gosec // G204: the path comes from discovery
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		d.log.Debug("Version check failed", "error", err)

		return
	}

	version, ok := parseVersion(string(output))
	if !ok {
		d.log.Debug("Could not parse version", "output", strings.TrimSpace(string(output)))

		return
	}

	if compareVersions(version, d.cfg.MinimumVersion) < 0 {
		d.log.Warn(fmt.Sprintf("%s version is unsupported", d.binary()),
			"version", version,
			"minimum_required", d.cfg.MinimumVersion,
		)

		return
	}

	d.log.Debug("Version check passed", "version", version, "minimum", d.cfg.MinimumVersion)
}

// parseVersion extracts the first X.Y or X.Y.Z from output such as
// "LCDF Gifsicle 1.94".
func parseVersion(output string) (string, bool) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// compareVersions compares two dotted versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := range 3 {
		aNum := 0
		bNum := 0

		if i < len(aParts) {
			aNum, _ = strconv.Atoi(aParts[i])
		}

		if i < len(bParts) {
			bNum, _ = strconv.Atoi(bParts[i])
		}

		if aNum < bNum {
			return -1
		}

		if aNum > bNum {
			return 1
		}
	}

	return 0
}
