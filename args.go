package procstream

import "github.com/wagiedev/procstream-go/internal/cli"

// GifsicleArgs accumulates gifsicle flags for a Stream.
type GifsicleArgs = cli.GifsicleArgs

// Gif2WebpArgs accumulates gif2webp flags.
type Gif2WebpArgs = cli.Gif2WebpArgs

// ErrInvalidResize indicates a resize without any dimension.
var ErrInvalidResize = cli.ErrInvalidResize

// NewGifsicleArgs returns an empty gifsicle argument set.
func NewGifsicleArgs() *GifsicleArgs {
	return cli.NewGifsicleArgs()
}

// NewGif2WebpArgs returns an empty gif2webp argument set.
func NewGif2WebpArgs() *Gif2WebpArgs {
	return cli.NewGif2WebpArgs()
}
