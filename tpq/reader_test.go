package tpq_test

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/connorworley/topodump/internal"
	"github.com/connorworley/topodump/maplet"
	"github.com/connorworley/topodump/tpq"
	"github.com/connorworley/topodump/tpq/spec"
	"github.com/google/go-cmp/cmp"
)

func testPayloads() [][]byte {
	return [][]byte{
		[]byte("maplet r0 c0"),
		[]byte("maplet r0 c1"),
		[]byte("maplet r0 c2"),
		[]byte("maplet r1 c0"),
		[]byte("maplet r1 c1"),
		[]byte("maplet r1 c2"),
	}
}

func TestReaderHeader(t *testing.T) {
	header := internal.TestHeader(2, 3, 40, 30)
	quad := internal.BuildQuad(header, testPayloads())

	reader, err := tpq.NewReader(quad)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	if got, want := reader.Header(), header; !cmp.Equal(got, want) {
		t.Errorf("Header mismatch (-want +got):\n%v", cmp.Diff(want, got))
	}
	if got, want := reader.MapletCount(), 6; got != want {
		t.Errorf("MapletCount = %v, want = %v", got, want)
	}
}

func TestReaderVisitOrder(t *testing.T) {
	payloads := testPayloads()
	quad := internal.BuildQuad(internal.TestHeader(2, 3, 40, 30), payloads)

	reader, err := tpq.NewReader(quad)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	visited := make([]maplet.Cell, 0)
	err = reader.VisitMaplets(func(cell maplet.Cell, mapletData []byte) error {
		if got, want := mapletData, payloads[len(visited)]; !cmp.Equal(got, want) {
			t.Errorf("maplet %v = %q, want = %q", cell, got, want)
		}
		visited = append(visited, cell)
		return nil
	})
	if err != nil {
		t.Fatalf("VisitMaplets failed: %v", err)
	}

	want := []maplet.Cell{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2},
	}
	if !cmp.Equal(visited, want) {
		t.Errorf("visit order mismatch (-want +got):\n%v", cmp.Diff(want, visited))
	}
}

func TestReaderIterator(t *testing.T) {
	payloads := testPayloads()
	reader, err := tpq.NewReader(internal.BuildQuad(internal.TestHeader(2, 3, 40, 30), payloads))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	collected := maps.Collect(reader.Maplets())
	if got, want := len(collected), reader.MapletCount(); got != want {
		t.Fatalf("collected %v maplets, want = %v", got, want)
	}
	for cell, mapletData := range collected {
		if got, want := mapletData, payloads[cell.Index(3)]; !cmp.Equal(got, want) {
			t.Errorf("maplet %v = %q, want = %q", cell, got, want)
		}
	}
}

func TestReadMaplet(t *testing.T) {
	payloads := testPayloads()
	reader, err := tpq.NewReader(internal.BuildQuad(internal.TestHeader(2, 3, 40, 30), payloads))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	// A middle maplet is bounded by the next directory offset, the trailing
	// one by the end of the file.
	middle, err := reader.ReadMaplet(maplet.Cell{Row: 0, Col: 1})
	if err != nil {
		t.Fatalf("ReadMaplet failed: %v", err)
	}
	if got, want := middle, payloads[1]; !cmp.Equal(got, want) {
		t.Errorf("ReadMaplet = %q, want = %q", got, want)
	}

	trailing, err := reader.ReadMaplet(maplet.Cell{Row: 1, Col: 2})
	if err != nil {
		t.Fatalf("ReadMaplet failed: %v", err)
	}
	if got, want := trailing, payloads[5]; !cmp.Equal(got, want) {
		t.Errorf("ReadMaplet = %q, want = %q", got, want)
	}

	if _, err := reader.ReadMaplet(maplet.Cell{Row: 2, Col: 0}); err == nil {
		t.Error("ReadMaplet outside the grid should fail")
	}
}

func TestFileReader(t *testing.T) {
	header := internal.TestHeader(2, 3, 40, 30)
	quad := internal.BuildQuad(header, testPayloads())

	filePath := filepath.Join(t.TempDir(), "boulder.tpq")
	if err := os.WriteFile(filePath, quad, 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := tpq.NewFileReader(filePath)
	if err != nil {
		t.Fatalf("NewFileReader failed: %v", err)
	}
	if got, want := reader.Header(), header; !cmp.Equal(got, want) {
		t.Errorf("Header mismatch (-want +got):\n%v", cmp.Diff(want, got))
	}
}

func TestReaderTruncated(t *testing.T) {
	payloads := testPayloads()
	quad := internal.BuildQuad(internal.TestHeader(2, 3, 40, 30), payloads)

	t.Run("header", func(t *testing.T) {
		_, err := tpq.NewReader(quad[:300])
		if !errors.Is(err, spec.ErrTruncatedInput) {
			t.Errorf("expected truncated input, got: %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := tpq.NewReader(quad[:spec.DirectoryOffset+10])
		if !errors.Is(err, spec.ErrTruncatedInput) {
			t.Errorf("expected truncated input, got: %v", err)
		}
	})

	t.Run("maplet", func(t *testing.T) {
		// Cut the file just before the last payload: its directory offset now
		// points past the end of the buffer.
		reader, err := tpq.NewReader(quad[: len(quad)-len(payloads[5])])
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		err = reader.VisitMaplets(func(maplet.Cell, []byte) error { return nil })
		if !errors.Is(err, spec.ErrTruncatedInput) {
			t.Errorf("expected truncated input, got: %v", err)
		}
	})
}

func TestReaderHugeGridCounts(t *testing.T) {
	// A header declaring 2^62 maplets asks for a directory far larger than
	// any real file; the reader must refuse it as truncated input rather
	// than attempt the allocation.
	header := internal.TestHeader(1<<31, 1<<31, 400, 400)

	_, err := tpq.NewReader(spec.SerializeHeader(header))
	if !errors.Is(err, spec.ErrTruncatedInput) {
		t.Errorf("expected truncated input, got: %v", err)
	}
}

func TestMapletEndLargeBuffer(t *testing.T) {
	// Payload bounds must hold for buffers larger than the uint32 range.
	size := 1<<32 + 100
	sorted := []uint32{1024, 1<<32 - 50}

	if got, want := tpq.MapletEnd(1024, sorted, size), 1<<32-50; got != want {
		t.Errorf("middle payload ends at %v, want = %v", got, want)
	}
	if got, want := tpq.MapletEnd(1<<32-50, sorted, size), size; got != want {
		t.Errorf("trailing payload ends at %v, want = %v", got, want)
	}
	if got, want := tpq.MapletEnd(1<<32-1, []uint32{1024}, size), size; got != want {
		t.Errorf("max-offset payload ends at %v, want = %v", got, want)
	}
}
