// Package feather reads features stored in GeoArrow / Feather (Arrow IPC)
// files with a WKB geometry column.
package feather

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/rs/zerolog/log"
)

// AutoID generates sequential ids instead of reading an id column.
const AutoID = "__auto__"

// Table holds the feature ids and WKB geometries read from a file. Null
// geometries are nil. IDs is nil when no id column was requested.
type Table struct {
	IDs []uint64
	WKB [][]byte
}

// Size returns the number of features.
func (t *Table) Size() int {
	return len(t.WKB)
}

// Read loads the WKB values of geomColName, and optionally the ids from
// idColName, from the Arrow IPC file at path. idColName may be empty or
// AutoID.
func Read(path string, geomColName string, idColName string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// read records into a simple Arrow table
	records := make([]array.Record, r.NumRecords())
	for i := 0; i < r.NumRecords(); i++ {
		records[i], err = r.RecordAt(i)
		if err != nil {
			releaseRecords(records)
			return nil, err
		}
	}
	defer releaseRecords(records)

	t := array.NewTableFromRecords(r.Schema(), records)
	defer t.Release()

	// Extract geometries
	geomColIdxs := r.Schema().FieldIndices(geomColName)
	if geomColIdxs == nil {
		return nil, fmt.Errorf("'%v' column must be present", geomColName)
	}
	col := t.Column(geomColIdxs[0]).Data()

	wkbs := make([][]byte, t.NumRows())
	i := 0
	for _, chunk := range col.Chunks() {
		c, ok := chunk.(*array.Binary)
		if !ok {
			return nil, fmt.Errorf("'%v' column must be binary (WKB), got %v", geomColName, chunk.DataType())
		}
		for j := 0; j < chunk.Len(); j++ {
			if c.IsValid(j) {
				// values point into Arrow buffers released on return
				wkbs[i] = append([]byte(nil), c.Value(j)...)
			}
			i++
		}
	}

	// Extract id field (optional)
	var ids []uint64
	switch idColName {
	case "":
	case AutoID:
		log.Info().Msg("Autogenerating id field")

		ids = make([]uint64, t.NumRows())
		for i = 0; i < len(ids); i++ {
			ids[i] = uint64(i)
		}
	default:
		log.Info().Str("column", idColName).Msg("Using column for id")

		idColIdxs := r.Schema().FieldIndices(idColName)
		if idColIdxs == nil {
			return nil, fmt.Errorf("'%s' column must be present to use as id", idColName)
		}
		ids = make([]uint64, t.NumRows())

		i = 0
		for _, chunk := range t.Column(idColIdxs[0]).Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				id, err := getFeatureID(chunk, j)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				ids[i] = id
				i++
			}
		}
	}

	return &Table{IDs: ids, WKB: wkbs}, nil
}

func releaseRecords(records []array.Record) {
	for _, rec := range records {
		if rec != nil {
			rec.Release()
		}
	}
}

func getFeatureID(chunk array.Interface, i int) (uint64, error) {
	if chunk.IsNull(i) {
		return 0, fmt.Errorf("cannot use column with null value for id")
	}
	switch chunk.DataType().ID() {
	case arrow.INT8:
		return nonNegative(int64(chunk.(*array.Int8).Value(i)))
	case arrow.INT16:
		return nonNegative(int64(chunk.(*array.Int16).Value(i)))
	case arrow.INT32:
		return nonNegative(int64(chunk.(*array.Int32).Value(i)))
	case arrow.INT64:
		return nonNegative(chunk.(*array.Int64).Value(i))
	case arrow.UINT8:
		return uint64(chunk.(*array.Uint8).Value(i)), nil
	case arrow.UINT16:
		return uint64(chunk.(*array.Uint16).Value(i)), nil
	case arrow.UINT32:
		return uint64(chunk.(*array.Uint32).Value(i)), nil
	case arrow.UINT64:
		return chunk.(*array.Uint64).Value(i), nil
	default:
		return 0, fmt.Errorf("cannot use non-integer column for id")
	}
}

func nonNegative(id int64) (uint64, error) {
	if id < 0 {
		return 0, fmt.Errorf("cannot use column with negative value for id")
	}
	return uint64(id), nil
}
