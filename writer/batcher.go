package writer

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

// defaultBatchLimit is the number of CSV rows pushed per remote value-write
// call.
const defaultBatchLimit = 1000

// csvBatcher reads a CSV file as a finite sequence of fixed-size row
// batches, in file order. The row and column counts are taken in a first
// pass over the file at construction so that the remote grid can be sized
// before any values are written.
//
// A batcher is good for exactly one pass - construct a fresh one per upload.
type csvBatcher struct {
	f       *os.File
	r       *csv.Reader
	limit   int
	columns int
	rows    int
}

func newCSVBatcher(pathname string, limit int) (*csvBatcher, error) {
	if limit < 1 {
		limit = defaultBatchLimit
	}

	columns, rows, err := countCSV(pathname)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input CSV '%s'", pathname)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &csvBatcher{
		f:       f,
		r:       r,
		limit:   limit,
		columns: columns,
		rows:    rows,
	}, nil
}

// Next returns the next batch of at most 'limit' rows, or io.EOF once the
// file is exhausted.
func (b *csvBatcher) Next() ([][]string, error) {
	batch := [][]string{}

	for len(batch) < b.limit {
		record, err := b.r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "error reading input CSV '%s'", b.f.Name())
		}

		batch = append(batch, record)
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}

	return batch, nil
}

// ColumnCount is the number of cells in the first row of the file (0 for an
// empty file).
func (b *csvBatcher) ColumnCount() int {
	return b.columns
}

// TotalRowCount is the number of rows in the file, header included.
func (b *csvBatcher) TotalRowCount() int {
	return b.rows
}

func (b *csvBatcher) Close() error {
	return b.f.Close()
}

func countCSV(pathname string) (columns int, rows int, err error) {
	f, err := os.Open(pathname)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "unable to open input CSV '%s'", pathname)
	}

	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, 0, errors.Wrapf(err, "error reading input CSV '%s'", pathname)
		}

		if rows == 0 {
			columns = len(record)
		}

		rows++
	}

	return columns, rows, nil
}

// asValues converts a batch of CSV rows to the cell representation used by
// the remote value-write calls.
func asValues(batch [][]string) [][]interface{} {
	rows := make([][]interface{}, len(batch))

	for i, record := range batch {
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}

		rows[i] = row
	}

	return rows
}
