package feather

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// POINT (1 2), little endian
const pointWKB = "0101000000000000000000F03F0000000000000040"

func writeFixture(t *testing.T, ids []int64, wkbs [][]byte) string {
	t.Helper()

	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "fid", Type: arrow.PrimitiveTypes.Int64},
		{Name: "geometry", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues(ids, nil)
	gb := b.Field(1).(*array.BinaryBuilder)
	sb := b.Field(2).(*array.StringBuilder)
	for _, wkb := range wkbs {
		if wkb == nil {
			gb.AppendNull()
		} else {
			gb.Append(wkb)
		}
		sb.Append("feature")
	}

	rec := b.NewRecord()
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "test.feather")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	return path
}

func Test_Read(t *testing.T) {
	wkb, err := hex.DecodeString(pointWKB)
	require.NoError(t, err)
	path := writeFixture(t, []int64{10, 20, 30}, [][]byte{wkb, nil, wkb})

	tests := []struct {
		idCol  string
		expect []uint64
	}{
		{idCol: "", expect: nil},
		{idCol: AutoID, expect: []uint64{0, 1, 2}},
		{idCol: "fid", expect: []uint64{10, 20, 30}},
	}

	for _, tc := range tests {
		table, err := Read(path, "geometry", tc.idCol)
		require.NoError(t, err, tc.idCol)
		assert.Equal(t, 3, table.Size())
		assert.Equal(t, tc.expect, table.IDs, tc.idCol)
		assert.Equal(t, wkb, table.WKB[0])
		assert.Nil(t, table.WKB[1])
		assert.Equal(t, wkb, table.WKB[2])
	}
}

func Test_ReadErrors(t *testing.T) {
	wkb, err := hex.DecodeString(pointWKB)
	require.NoError(t, err)
	path := writeFixture(t, []int64{1, -1}, [][]byte{wkb, wkb})

	_, err = Read(path, "geometry", "fid")
	assert.ErrorContains(t, err, "negative")

	_, err = Read(path, "missing", "")
	assert.ErrorContains(t, err, "'missing' column must be present")

	_, err = Read(path, "geometry", "missing")
	assert.ErrorContains(t, err, "to use as id")

	_, err = Read(path, "name", "")
	assert.ErrorContains(t, err, "must be binary")

	_, err = Read(path, "geometry", "name")
	assert.ErrorContains(t, err, "non-integer")

	_, err = Read(filepath.Join(t.TempDir(), "none.feather"), "geometry", "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
