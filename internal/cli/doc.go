// Package cli locates converter binaries and builds their command lines.
//
// # Discovery
//
// The Discoverer interface locates a converter binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    Binary: "gifsicle",
//	    Logger: slog.Default(),
//	})
//	path, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.BinaryPath (if provided, nothing else is tried)
//  2. The PROCSTREAM_<BINARY>_PATH environment variable
//  3. System PATH
//  4. Fallback paths (/usr/local/bin, /usr/bin, /opt/homebrew/bin, ~/.local/bin)
//
// A Resolver caches the outcome so a stream looks the binary up at most once.
//
// # Command Building
//
// GifsicleArgs and Gif2WebpArgs accumulate converter flags:
//
//	gifsicle := cli.NewGifsicleArgs()
//	_ = gifsicle.Resize(320, 0)
//	gifsicle.Optimize(3)
//	args := gifsicle.Build()
package cli
