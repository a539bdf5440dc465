package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/connorworley/topodump/catalog"
	"github.com/connorworley/topodump/tpq"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type catalogCmd struct {
	outputPath string
}

func (c *catalogCmd) Name() string     { return "catalog" }
func (c *catalogCmd) Synopsis() string { return "index the headers of a TPQ collection into a database" }
func (c *catalogCmd) Usage() string {
	return "topodump catalog -o <path> [<dir> ...]\n"
}
func (c *catalogCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputPath, "o", "", "Output database path")
}

func (c *catalogCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	roots := f.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	writer, err := catalog.NewWriter(c.outputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer writer.Close()

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".tpq") {
				return nil
			}

			reader, err := tpq.NewFileReader(path)
			if err != nil {
				// A quad that cannot be read is skipped, not fatal.
				log.Printf("skipping %v: %v", path, err)
				return nil
			}

			if err := writer.AddQuad(path, reader.Header()); err != nil {
				return err
			}
			bar.Add(1)
			return nil
		})
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	bar.Finish()
	fmt.Println()

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
