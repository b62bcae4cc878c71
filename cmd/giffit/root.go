package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/wagiedev/procstream-go"
)

type rootOptions struct {
	width      int
	height     int
	optimize   int
	lossy      int
	colors     int
	timeout    time.Duration
	binaryPath string
	verbose    bool
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "giffit [flags] <input.gif|-> <output.gif|->",
		Short: "Resize and optimize GIF images with gifsicle",
		Long: `Streams the input image through gifsicle and writes the result. ` +
			`Use "-" for stdin or stdout.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err := run(ctx, cmd, &opts, args[0], args[1])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "giffit:", err)
			}

			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.width, "width", 0, "Resize to this width (keeps aspect ratio without --height)")
	flags.IntVar(&opts.height, "height", 0, "Resize to this height (keeps aspect ratio without --width)")
	flags.IntVarP(&opts.optimize, "optimize", "O", 0, "Optimization level 1-3")
	flags.IntVar(&opts.lossy, "lossy", 0, "Lossy compression strength")
	flags.IntVar(&opts.colors, "colors", 0, "Reduce the palette to this many colors")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "Kill gifsicle after this long (0 disables)")
	flags.StringVar(&opts.binaryPath, "gifsicle", "", "Path to the gifsicle binary")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Log in JSON format")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *rootOptions, input, output string) error {
	args := procstream.NewGifsicleArgs()

	if opts.width > 0 || opts.height > 0 {
		if err := args.Resize(opts.width, opts.height); err != nil {
			return err
		}
	}

	args.Optimize(opts.optimize)
	args.Lossy(opts.lossy)
	args.Colors(opts.colors)

	in, closeIn, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, output)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), opts)
	logger.Debug("Converting image", "input", input, "output", output, "args", args.Build())

	streamOpts := []procstream.Option{
		procstream.WithLogger(logger),
		procstream.WithTimeout(opts.timeout),
	}

	if opts.binaryPath != "" {
		streamOpts = append(streamOpts, procstream.WithBinaryPath(opts.binaryPath))
	}

	convertErr := procstream.Convert(ctx, in, out, args.Build(), streamOpts...)

	if err := closeOut(); err != nil && convertErr == nil {
		convertErr = fmt.Errorf("close output: %w", err)
	}

	return convertErr
}

func newLogger(w io.Writer, opts *rootOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.logJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func openOutput(cmd *cobra.Command, name string) (io.Writer, func() error, error) {
	if name == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, f.Close, nil
}
