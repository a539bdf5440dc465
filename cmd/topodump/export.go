package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/connorworley/topodump/jpegdir"
	"github.com/connorworley/topodump/maplet"
	"github.com/connorworley/topodump/tpq"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportCmd struct {
	inputPath     string
	outputPattern string
}

func (c *exportCmd) Name() string     { return "export" }
func (c *exportCmd) Synopsis() string { return "export a quad's maplets as individual JPEG files" }
func (c *exportCmd) Usage() string {
	return "topodump export -i <path> -o <pattern>\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input TPQ path")
	f.StringVar(&c.outputPattern, "o", "", `Output file pattern (e.g. "maplets/{row}/{col}.jpg")`)
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := tpq.NewFileReader(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	writer, err := jpegdir.NewWriter(c.outputPattern)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.New(reader.MapletCount())
	err = reader.VisitMaplets(func(cell maplet.Cell, jpegData []byte) error {
		err := writer.WriteMaplet(cell, jpegData)
		bar.Add(1)
		return err
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
