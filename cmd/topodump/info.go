package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/connorworley/topodump/geo"
	"github.com/connorworley/topodump/tpq"
	"github.com/google/subcommands"
)

type infoCmd struct {
	inputPath string
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print a TPQ quad's header" }
func (c *infoCmd) Usage() string {
	return "topodump info -i <path>\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input TPQ path")
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := tpq.NewFileReader(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	header := reader.Header()

	fmt.Printf("%-13v %v\n", "quad:", header.QuadName)
	fmt.Printf("%-13v %v\n", "state:", header.StateName)
	fmt.Printf("%-13v %v\n", "topo:", header.Topo)
	fmt.Printf("%-13v %v\n", "source:", header.Source)
	fmt.Printf("%-13v %v %v\n", "years:", header.Year1, header.Year2)
	fmt.Printf("%-13v %v\n", "contour:", header.Contour)
	fmt.Printf("%-13v %v\n", "version:", header.Version)
	fmt.Printf("%-13v %v\n", "color depth:", header.ColorDepth)
	fmt.Printf("%-13v west %v, north %v, east %v, south %v\n", "bounds:",
		header.WestLong, header.NorthLat, header.EastLong, header.SouthLat)
	fmt.Printf("%-13v %v x %v maplets of %v x %v px\n", "grid:",
		header.LatCount, header.LongCount, header.MapletWidth, header.MapletHeight)
	fmt.Printf("%-13v %v x %v px\n", "mosaic:",
		header.LongCount*header.MapletWidth, header.LatCount*header.MapletHeight)

	nw := geo.LatLongToUTM(header.NorthLat, header.WestLong)
	fmt.Printf("%-13v %v (EPSG:%v)\n", "utm zone:", nw.Zone, 26700+nw.Zone)

	return subcommands.ExitSuccess
}
