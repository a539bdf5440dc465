package catalog

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/connorworley/topodump/tpq/spec"
)

// Writer builds a catalog database from quad headers.
type Writer struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
}

type writerConfig struct {
	Logger *slog.Logger
}

type WriterOption func(*writerConfig)

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for writing a catalog database.
// It applies given options and initializes the database for adding quads.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE quads (
			path TEXT,
			version INTEGER,
			west_long REAL,
			north_lat REAL,
			east_long REAL,
			south_lat REAL,
			topo TEXT,
			quad_name TEXT,
			state_name TEXT,
			source TEXT,
			year1 TEXT,
			year2 TEXT,
			contour TEXT,
			extension TEXT,
			color_depth INTEGER,
			long_count INTEGER,
			lat_count INTEGER,
			maplet_width INTEGER,
			maplet_height INTEGER
		);
	`)
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare(`
		INSERT INTO quads (
			path, version,
			west_long, north_lat, east_long, south_lat,
			topo, quad_name, state_name, source,
			year1, year2, contour, extension, color_depth,
			long_count, lat_count, maplet_width, maplet_height
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}

	return &Writer{db, stmt, config.Logger}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

// AddQuad records one quad's header under the given file path.
func (w *Writer) AddQuad(path string, header *spec.Header) error {
	_, err := w.stmt.Exec(
		path, header.Version,
		header.WestLong, header.NorthLat, header.EastLong, header.SouthLat,
		header.Topo, header.QuadName, header.StateName, header.Source,
		header.Year1, header.Year2, header.Contour, header.Extension, header.ColorDepth,
		header.LongCount, header.LatCount, header.MapletWidth, header.MapletHeight,
	)
	return err
}

// Finalize builds the path index. It fails if the same path was added twice.
func (w *Writer) Finalize() error {
	w.logger.Debug("topodump: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX quad_path_index ON quads (path)")

	w.logger.Debug("topodump: done!")
	return err
}
