package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/connorworley/topodump/convert"
	"github.com/connorworley/topodump/geo"
	"github.com/connorworley/topodump/geotiff"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type convertCmd struct {
	inputPath   string
	outputPath  string
	strategy    string
	compression string
	worldFile   bool
	verbose     bool
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert a TPQ quad to a GeoTIFF mosaic" }
func (c *convertCmd) Usage() string {
	return "topodump convert [-i <path>] [-o <path>] [-crs <strategy>] [-compress <method>] [-world] [-v]\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input TPQ path (default: standard input)")
	f.StringVar(&c.outputPath, "o", "", "Output GeoTIFF path (default: map_<west>_<north>.tif)")
	f.StringVar(&c.strategy, "crs", "utm", "Georeferencing strategy (utm, geographic)")
	f.StringVar(&c.compression, "compress", "deflate", "GeoTIFF compression (deflate, none)")
	f.BoolVar(&c.worldFile, "world", false, "Also write an ESRI world file")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	strategy, err := geo.ParseStrategy(c.strategy)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}
	compression, err := geotiff.ParseCompression(c.compression)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	var tpqData []byte
	if c.inputPath == "" || c.inputPath == "-" {
		tpqData, err = io.ReadAll(os.Stdin)
	} else {
		tpqData, err = os.ReadFile(c.inputPath)
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	logger := slog.New(slog.DiscardHandler)
	if c.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	written, err := convert.Bytes(tpqData, c.outputPath,
		convert.WithStrategy(strategy),
		convert.WithCompression(compression),
		convert.WithWorldFile(c.worldFile),
		convert.WithLogger(logger),
		convert.WithProgress(func(done, total int) { bar.Add(1) }),
	)
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Println(written)
	return subcommands.ExitSuccess
}
