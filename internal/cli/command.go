package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
)

// ErrInvalidResize indicates Resize was called without any dimension.
var ErrInvalidResize = errors.New("resize requires a width or a height")

// GifsicleArgs accumulates gifsicle flags. gifsicle reads stdin and writes
// stdout when no file operands are given, which is how streams drive it.
type GifsicleArgs struct {
	resize   []string
	optimize int
	lossy    int
	colors   int
	extra    []string
}

// NewGifsicleArgs returns an empty gifsicle argument set.
func NewGifsicleArgs() *GifsicleArgs {
	return &GifsicleArgs{}
}

// Resize scales the image. A zero dimension keeps the aspect ratio.
// Each call replaces the previous resize.
func (a *GifsicleArgs) Resize(width, height int) error {
	switch {
	case width > 0 && height > 0:
		a.resize = []string{"--resize", strconv.Itoa(width) + "x" + strconv.Itoa(height)}
	case width > 0:
		a.resize = []string{"--resize-width", strconv.Itoa(width)}
	case height > 0:
		a.resize = []string{"--resize-height", strconv.Itoa(height)}
	default:
		return ErrInvalidResize
	}

	return nil
}

// Optimize sets the optimization level, clamped to 1..3. Zero disables it.
func (a *GifsicleArgs) Optimize(level int) {
	a.optimize = min(max(level, 0), 3)
}

// Lossy enables lossy compression at the given strength. Zero disables it.
func (a *GifsicleArgs) Lossy(strength int) {
	a.lossy = max(strength, 0)
}

// Colors reduces the palette to n colors (2..256). Zero disables it.
func (a *GifsicleArgs) Colors(n int) {
	if n == 0 {
		a.colors = 0

		return
	}

	a.colors = min(max(n, 2), 256)
}

// Extra appends raw flags after the generated ones.
func (a *GifsicleArgs) Extra(args ...string) {
	a.extra = append(a.extra, args...)
}

// Build returns the argument list.
func (a *GifsicleArgs) Build() []string {
	args := make([]string, 0, len(a.resize)+len(a.extra)+4)
	args = append(args, a.resize...)

	if a.optimize > 0 {
		args = append(args, "-O"+strconv.Itoa(a.optimize))
	}

	if a.lossy > 0 {
		args = append(args, "--lossy="+strconv.Itoa(a.lossy))
	}

	if a.colors > 0 {
		args = append(args, "--colors", strconv.Itoa(a.colors))
	}

	return append(args, a.extra...)
}

// Gif2WebpArgs accumulates gif2webp flags.
type Gif2WebpArgs struct {
	metadata string
	quality  int
	method   int
	lossy    bool
	mixed    bool
}

// NewGif2WebpArgs returns an empty gif2webp argument set.
func NewGif2WebpArgs() *Gif2WebpArgs {
	return &Gif2WebpArgs{quality: -1, method: -1}
}

// WithMetadata keeps (true) or strips (false) all metadata.
// The last call wins.
func (a *Gif2WebpArgs) WithMetadata(keep bool) {
	if keep {
		a.metadata = "all"
	} else {
		a.metadata = "none"
	}
}

// Quality sets the compression factor, clamped to 0..100.
func (a *Gif2WebpArgs) Quality(q int) {
	a.quality = min(max(q, 0), 100)
}

// Method sets the compression method, clamped to 0..6.
func (a *Gif2WebpArgs) Method(m int) {
	a.method = min(max(m, 0), 6)
}

// Lossy encodes frames lossily.
func (a *Gif2WebpArgs) Lossy(enabled bool) {
	a.lossy = enabled
}

// Mixed picks lossy or lossless per frame.
func (a *Gif2WebpArgs) Mixed(enabled bool) {
	a.mixed = enabled
}

// Build returns the argument list reading input and writing output.
func (a *Gif2WebpArgs) Build(input, output string) []string {
	args := make([]string, 0, 12)

	if a.metadata != "" {
		args = append(args, "-metadata", a.metadata)
	}

	if a.quality >= 0 {
		args = append(args, "-q", strconv.Itoa(a.quality))
	}

	if a.method >= 0 {
		args = append(args, "-m", strconv.Itoa(a.method))
	}

	if a.lossy {
		args = append(args, "-lossy")
	}

	if a.mixed {
		args = append(args, "-mixed")
	}

	return append(args, input, "-o", output)
}

// BuildEnvironment returns the child environment: the current environment
// plus env. It returns nil when env is empty so the child inherits as-is.
func BuildEnvironment(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	result := os.Environ()

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		result = append(result, fmt.Sprintf("%s=%s", key, env[key]))
	}

	return result
}
