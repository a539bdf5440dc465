// Package catalog provides API for indexing the headers of a TPQ collection
// in a SQLite database, one row per quad file.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/connorworley/topodump/tpq/spec"
)

// Quad is one cataloged TPQ file: its path and its header.
type Quad struct {
	Path   string
	Header spec.Header
}

const quadColumns = `path, version,
	west_long, north_lat, east_long, south_lat,
	topo, quad_name, state_name, source,
	year1, year2, contour, extension, color_depth,
	long_count, lat_count, maplet_width, maplet_height`

// Reader reads a catalog database.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given catalog database path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT " + quadColumns + " FROM quads WHERE path = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func scanQuad(scan func(dest ...any) error) (Quad, error) {
	var quad Quad
	header := &quad.Header
	err := scan(
		&quad.Path, &header.Version,
		&header.WestLong, &header.NorthLat, &header.EastLong, &header.SouthLat,
		&header.Topo, &header.QuadName, &header.StateName, &header.Source,
		&header.Year1, &header.Year2, &header.Contour, &header.Extension, &header.ColorDepth,
		&header.LongCount, &header.LatCount, &header.MapletWidth, &header.MapletHeight,
	)
	return quad, err
}

// ReadQuad reads a single quad by path. It returns nil with no error when the
// path is not cataloged.
func (r *Reader) ReadQuad(path string) (*Quad, error) {
	quad, err := scanQuad(r.stmt.QueryRow(path).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &quad, nil
}

// VisitQuads visits every cataloged quad in path order.
func (r *Reader) VisitQuads(visitor func(Quad) error) error {
	rows, err := r.db.Query("SELECT " + quadColumns + " FROM quads ORDER BY path")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		quad, err := scanQuad(rows.Scan)
		if err != nil {
			return err
		}

		if err := visitor(quad); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
