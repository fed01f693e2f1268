package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func stageCSV(t *testing.T, rows int) string {
	t.Helper()

	pathname := filepath.Join(t.TempDir(), "table.csv")

	f, err := os.Create(pathname)
	if err != nil {
		t.Fatalf("Unexpected error staging CSV (%v)", err)
	}

	defer f.Close()

	fmt.Fprintf(f, "id,name,value\n")
	for i := 1; i < rows; i++ {
		fmt.Fprintf(f, "%v,row %v,%v\n", i, i, i*i)
	}

	return pathname
}

func TestCSVBatcherCounts(t *testing.T) {
	batcher, err := newCSVBatcher(stageCSV(t, 5), 2)
	if err != nil {
		t.Fatalf("Unexpected error creating batcher (%v)", err)
	}

	defer batcher.Close()

	if batcher.ColumnCount() != 3 {
		t.Errorf("Incorrect column count - expected:%v, got:%v", 3, batcher.ColumnCount())
	}

	if batcher.TotalRowCount() != 5 {
		t.Errorf("Incorrect row count - expected:%v, got:%v", 5, batcher.TotalRowCount())
	}
}

func TestCSVBatcherBatchSizes(t *testing.T) {
	tests := []struct {
		rows     int
		limit    int
		expected []int
	}{
		{5, 2, []int{2, 2, 1}},
		{5, 5, []int{5}},
		{6, 2, []int{2, 2, 2}},
		{1, 1000, []int{1}},
		{5, 1000, []int{5}},
	}

	for _, test := range tests {
		batcher, err := newCSVBatcher(stageCSV(t, test.rows), test.limit)
		if err != nil {
			t.Fatalf("Unexpected error creating batcher (%v)", err)
		}

		sizes := []int{}
		total := 0
		for {
			batch, err := batcher.Next()
			if err == io.EOF {
				break
			} else if err != nil {
				t.Fatalf("Unexpected error reading batch (%v)", err)
			}

			sizes = append(sizes, len(batch))
			total += len(batch)
		}

		batcher.Close()

		if !reflect.DeepEqual(sizes, test.expected) {
			t.Errorf("Incorrect batch sizes for %v rows, limit %v - expected:%v, got:%v", test.rows, test.limit, test.expected, sizes)
		}

		if total != test.rows {
			t.Errorf("Batch sizes do not sum to row count - expected:%v, got:%v", test.rows, total)
		}
	}
}

func TestCSVBatcherPreservesRowOrder(t *testing.T) {
	batcher, err := newCSVBatcher(stageCSV(t, 5), 2)
	if err != nil {
		t.Fatalf("Unexpected error creating batcher (%v)", err)
	}

	defer batcher.Close()

	rows := [][]string{}
	for {
		batch, err := batcher.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Unexpected error reading batch (%v)", err)
		}

		rows = append(rows, batch...)
	}

	expected := [][]string{
		{"id", "name", "value"},
		{"1", "row 1", "1"},
		{"2", "row 2", "4"},
		{"3", "row 3", "9"},
		{"4", "row 4", "16"},
	}

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect row order\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestCSVBatcherWithEmptyFile(t *testing.T) {
	pathname := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(pathname, []byte{}, 0o644); err != nil {
		t.Fatalf("Unexpected error staging CSV (%v)", err)
	}

	batcher, err := newCSVBatcher(pathname, 1000)
	if err != nil {
		t.Fatalf("Unexpected error creating batcher (%v)", err)
	}

	defer batcher.Close()

	if batcher.TotalRowCount() != 0 {
		t.Errorf("Incorrect row count for empty file - expected:%v, got:%v", 0, batcher.TotalRowCount())
	}

	if _, err := batcher.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF for empty file, got %v", err)
	}
}
