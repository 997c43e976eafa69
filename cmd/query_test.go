package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
	"github.com/brendan-ward/geosafe/config"
	"github.com/brendan-ward/geosafe/geos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toWKB(t *testing.T, wkts []string) [][]byte {
	t.Helper()

	w, err := geos.NewWKBWriter()
	require.NoError(t, err)
	defer w.Release()

	wkbs := make([][]byte, len(wkts))
	for i, wkt := range wkts {
		if wkt == "" {
			continue
		}
		g, err := geos.FromWKT(wkt)
		require.NoError(t, err)
		wkbs[i], err = w.Write(g)
		g.Release()
		require.NoError(t, err)
	}
	return wkbs
}

func writeFeather(t *testing.T, ids []int64, wkbs [][]byte) string {
	t.Helper()

	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "fid", Type: arrow.PrimitiveTypes.Int64},
		{Name: "geometry", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues(ids, nil)
	gb := b.Field(1).(*array.BinaryBuilder)
	for _, wkb := range wkbs {
		if wkb == nil {
			gb.AppendNull()
		} else {
			gb.Append(wkb)
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "features.feather")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	return path
}

func readResults(t *testing.T, path string) ([]int64, map[string]string) {
	t.Helper()

	con, err := sqlite.OpenConn(path, sqlite.SQLITE_OPEN_READWRITE)
	require.NoError(t, err)
	defer con.Close()

	var ids []int64
	err = sqlitex.Exec(con, "SELECT id FROM features ORDER BY id", func(stmt *sqlite.Stmt) error {
		ids = append(ids, stmt.ColumnInt64(0))
		return nil
	})
	require.NoError(t, err)

	metadata := map[string]string{}
	err = sqlitex.Exec(con, "SELECT name, value FROM metadata", func(stmt *sqlite.Stmt) error {
		metadata[stmt.ColumnText(0)] = stmt.ColumnText(1)
		return nil
	})
	require.NoError(t, err)
	return ids, metadata
}

func Test_Query(t *testing.T) {
	wkbs := toWKB(t, []string{
		"POINT (1 1)",
		"POINT (5 5)",
		"POLYGON ((0 0, 2 0, 2 2, 0 2, 0 0))",
		"",
	})
	infile := writeFeather(t, []int64{10, 20, 30, 40}, wkbs)

	tests := []struct {
		name   string
		opts   queryOptions
		expect []int64
	}{
		{
			name:   "intersects",
			opts:   queryOptions{wkt: "POLYGON ((0 0, 3 0, 3 3, 0 3, 0 0))", predicate: "intersects", idColumn: "fid"},
			expect: []int64{10, 30},
		},
		{
			name:   "within with auto ids",
			opts:   queryOptions{wkt: "POLYGON ((0.5 0.5, 1.5 0.5, 1.5 1.5, 0.5 1.5, 0.5 0.5))", predicate: "within", idColumn: "__auto__"},
			expect: []int64{2},
		},
		{
			name:   "buffered point",
			opts:   queryOptions{wkt: "POINT (5 5)", predicate: "contains", buffer: 0.5},
			expect: []int64{1},
		},
		{
			name:   "no matches",
			opts:   queryOptions{wkt: "POINT (100 100)", predicate: "intersects", idColumn: "fid"},
			expect: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.geomColumn = "geometry"
			tc.opts.numWorkers = 2
			outfile := filepath.Join(t.TempDir(), "out.sqlite")

			require.NoError(t, query(infile, outfile, tc.opts))

			ids, metadata := readResults(t, outfile)
			assert.Equal(t, tc.expect, ids)
			assert.Equal(t, "features", metadata["name"])
			assert.Equal(t, tc.opts.predicate, metadata["predicate"])
			assert.NotEmpty(t, metadata["query"])
		})
	}
}

func Test_QueryErrors(t *testing.T) {
	infile := writeFeather(t, []int64{1}, toWKB(t, []string{"POINT (1 1)"}))
	outfile := filepath.Join(t.TempDir(), "out.sqlite")

	err := query(infile, outfile, queryOptions{wkt: "POINT (1 1)", predicate: "disjoint", geomColumn: "geometry", numWorkers: 1})
	assert.ErrorIs(t, err, geos.ErrInvalidArgument)

	err = query(infile, outfile, queryOptions{wkt: "POINT (1", predicate: "intersects", geomColumn: "geometry", numWorkers: 1})
	assert.ErrorContains(t, err, "could not parse query geometry")

	err = query(infile, outfile, queryOptions{wkt: "POINT (1 1)", predicate: "intersects", geomColumn: "wkb", numWorkers: 1})
	assert.Error(t, err)
}

func Test_VersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), geos.Version())
	assert.Contains(t, out.String(), geos.GEOSVersion)
}

func Test_QueryText(t *testing.T) {
	defer func() { cfg = config.Default() }()

	ctx, err := geos.NewContext()
	require.NoError(t, err)
	g, err := ctx.FromWKT("POINT Z (1.234 5.678 9)")
	require.NoError(t, err)
	// the writer must not need any context other than the one of g
	ctx.Release()
	defer g.Release()

	tests := []struct {
		precision int
		dimension int
		expect    string
	}{
		{precision: 1, dimension: 2, expect: "POINT (1.2 5.7)"},
		{precision: 2, dimension: 3, expect: "POINT Z (1.23 5.68 9)"},
	}

	for _, tc := range tests {
		cfg.Writer.Precision = tc.precision
		cfg.Writer.OutputDimension = tc.dimension
		wkt, err := queryText(g)
		require.NoError(t, err)
		assert.Equal(t, tc.expect, wkt)
	}
}
