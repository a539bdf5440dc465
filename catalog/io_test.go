package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/connorworley/topodump/catalog"
	"github.com/connorworley/topodump/internal"
	"github.com/connorworley/topodump/tpq/spec"
	"github.com/google/go-cmp/cmp"

	_ "github.com/mattn/go-sqlite3"
)

func TestWriterReader(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quads.db")

	boulder := internal.TestHeader(2, 3, 40, 30)
	eldorado := internal.TestHeader(4, 4, 50, 50)
	eldorado.QuadName = "Eldorado Springs"
	eldorado.WestLong = -105.5
	eldorado.EastLong = -105.0

	quads := map[string]*spec.Header{
		"colorado/boulder.tpq":  boulder,
		"colorado/eldorado.tpq": eldorado,
	}

	writer, err := catalog.NewWriter(dbPath)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for path, header := range quads {
		if err := writer.AddQuad(path, header); err != nil {
			t.Errorf("AddQuad(%v) failed: %v", path, err)
		}
	}

	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reader, err := catalog.NewReader(dbPath)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	for path, header := range quads {
		quad, err := reader.ReadQuad(path)
		if err != nil {
			t.Errorf("ReadQuad(%v) failed: %v", path, err)
			continue
		}
		if quad == nil {
			t.Errorf("ReadQuad(%v) found nothing", path)
			continue
		}
		if got, want := quad.Header, *header; !cmp.Equal(got, want) {
			t.Errorf("ReadQuad(%v) header mismatch (-want +got):\n%v", path, cmp.Diff(want, got))
		}
	}

	quad, err := reader.ReadQuad("montana/missing.tpq")
	if err != nil {
		t.Errorf("ReadQuad(missing quad) failed: %v", err)
	}
	if quad != nil {
		t.Errorf("ReadQuad(missing quad) expected nil, got: %+v", quad)
	}

	visited := make([]string, 0)
	err = reader.VisitQuads(func(quad catalog.Quad) error {
		visited = append(visited, quad.Path)
		return nil
	})
	if err != nil {
		t.Fatalf("VisitQuads failed: %v", err)
	}
	if got, want := visited, []string{"colorado/boulder.tpq", "colorado/eldorado.tpq"}; !cmp.Equal(got, want) {
		t.Errorf("VisitQuads order mismatch (-want +got):\n%v", cmp.Diff(want, got))
	}
}

func TestFinalizeDuplicatePath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quads.db")

	writer, err := catalog.NewWriter(dbPath)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	header := internal.TestHeader(2, 3, 40, 30)
	for range 2 {
		if err := writer.AddQuad("colorado/boulder.tpq", header); err != nil {
			t.Fatalf("AddQuad failed: %v", err)
		}
	}

	if err := writer.Finalize(); err == nil {
		t.Error("Finalize with a duplicate path should fail")
	}
}
