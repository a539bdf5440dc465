// Package convert turns a TPQ quad into a georeferenced GeoTIFF mosaic.
package convert

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/connorworley/topodump/geo"
	"github.com/connorworley/topodump/geotiff"
	"github.com/connorworley/topodump/maplet"
	"github.com/connorworley/topodump/mosaic"
	"github.com/connorworley/topodump/tpq"
)

// ErrCleanupFailed reports that a conversion failed and the partially written
// output file could not be removed afterwards; it wraps both causes. It is
// equivalent to geotiff.ErrCleanupFailed.
var ErrCleanupFailed = geotiff.ErrCleanupFailed

type config struct {
	Strategy    geo.Strategy
	Compression geotiff.Compression
	WorldFile   bool
	Logger      *slog.Logger
	Progress    func(done, total int)
}

type Option func(*config)

// WithStrategy selects how the mosaic is georeferenced. The default is
// geo.StrategyUTM.
func WithStrategy(strategy geo.Strategy) Option {
	return func(c *config) { c.Strategy = strategy }
}

// WithCompression selects the GeoTIFF strip compression. The default is
// geotiff.CompressionDeflate.
func WithCompression(compression geotiff.Compression) Option {
	return func(c *config) { c.Compression = compression }
}

// WithWorldFile also writes an ESRI world file next to the output. A world
// file failure surfaces its error but leaves the finished GeoTIFF in place.
func WithWorldFile(enabled bool) Option {
	return func(c *config) { c.WorldFile = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// WithProgress registers a callback invoked after each maplet is placed.
func WithProgress(progress func(done, total int)) Option {
	return func(c *config) { c.Progress = progress }
}

// Bytes converts an in-memory TPQ file and writes the mosaic to outPath.
// When outPath is empty, the name is derived from the quad's northwest corner
// ("map_<west>_<north>.tif") in the current directory. It returns the path
// actually written.
//
// If writing fails partway, the partially written file is removed before the
// error is surfaced (see geotiff.Write); a raster without correct
// georeferencing is worse than no file. A failure writing the optional world
// file leaves the finished GeoTIFF in place: only the sidecar is missing.
func Bytes(tpqData []byte, outPath string, opts ...Option) (string, error) {
	config := config{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	reader, err := tpq.NewReader(tpqData)
	if err != nil {
		return "", err
	}
	header := reader.Header()

	if outPath == "" {
		outPath = fmt.Sprintf("map_%v_%v.tif", header.WestLong, header.NorthLat)
	}

	config.Logger.Debug("topodump: assembling mosaic",
		"rows", header.LatCount, "cols", header.LongCount)

	assembler, err := mosaic.NewAssembler(header)
	if err != nil {
		return "", err
	}

	done := 0
	err = reader.VisitMaplets(func(cell maplet.Cell, jpegData []byte) error {
		if err := assembler.WriteMaplet(cell, jpegData); err != nil {
			return err
		}
		done++
		if config.Progress != nil {
			config.Progress(done, reader.MapletCount())
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := assembler.Finalize(); err != nil {
		return "", err
	}

	img := assembler.Image()
	transform, crs, err := geo.Georeference(header, img.Bounds().Dx(), img.Bounds().Dy(), config.Strategy)
	if err != nil {
		return "", err
	}

	config.Logger.Debug("topodump: writing mosaic", "path", outPath, "crs", crs.Citation)

	err = geotiff.Write(outPath, img, transform, crs,
		geotiff.WithCompression(config.Compression),
		geotiff.WithLogger(config.Logger),
	)
	if err != nil {
		return "", err
	}

	if config.WorldFile {
		if err := geotiff.WriteWorldFile(geotiff.WorldFilePath(outPath), transform); err != nil {
			return "", err
		}
	}

	return outPath, nil
}

// File converts the TPQ file at inPath. See Bytes.
func File(inPath, outPath string, opts ...Option) (string, error) {
	tpqData, err := os.ReadFile(inPath)
	if err != nil {
		return "", err
	}
	return Bytes(tpqData, outPath, opts...)
}
