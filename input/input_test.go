package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func stage(t *testing.T, files map[string]string) string {
	t.Helper()

	datadir := t.TempDir()
	dir := filepath.Join(datadir, "in", "files")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Error staging input directory (%v)", err)
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Error staging input file %v (%v)", name, err)
		}
	}

	return datadir
}

func TestTablePath(t *testing.T) {
	input := New("/data")

	expected := filepath.Join("/data", "in", "tables", "titanic.csv")

	if path := input.TablePath("titanic"); path != expected {
		t.Errorf("Incorrect table path - expected:%v, got:%v", expected, path)
	}
}

func TestFiles(t *testing.T) {
	datadir := stage(t, map[string]string{
		"zebra.csv":           "a,b\n",
		"alpha.csv":           "a,b\n",
		"alpha.csv.manifest":  `{"name":"Alpha"}`,
		"middle.txt":          "...",
		"middle.txt.manifest": `{"name":"Middle"}`,
	})

	input := New(datadir)

	files, err := input.Files()
	if err != nil {
		t.Fatalf("Unexpected error enumerating input files (%v)", err)
	}

	names := []string{}
	for _, f := range files {
		names = append(names, f.Name)
	}

	expected := []string{"alpha.csv", "middle.txt", "zebra.csv"}

	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Incorrect file list - expected:%v, got:%v", expected, names)
	}
}

func TestFilesWithMissingDirectory(t *testing.T) {
	input := New(t.TempDir())

	files, err := input.Files()
	if err != nil {
		t.Fatalf("Unexpected error for missing input directory (%v)", err)
	}

	if len(files) != 0 {
		t.Errorf("Expected empty file list, got %v", files)
	}
}

func TestTitleWithManifest(t *testing.T) {
	datadir := stage(t, map[string]string{
		"report.csv":          "a,b\n",
		"report.csv.manifest": `{"name":"monthly report"}`,
	})

	input := New(datadir)

	file := File{Name: "report.csv", Path: input.FilePath("report.csv")}

	if title := input.Title(file); title != "monthly report" {
		t.Errorf("Incorrect title - expected:%v, got:%v", "monthly report", title)
	}
}

func TestTitleWithoutManifest(t *testing.T) {
	datadir := stage(t, map[string]string{
		"report.csv": "a,b\n",
	})

	input := New(datadir)

	file := File{Name: "report.csv", Path: input.FilePath("report.csv")}

	if title := input.Title(file); title != "report.csv" {
		t.Errorf("Incorrect title - expected:%v, got:%v", "report.csv", title)
	}
}

func TestTitleWithMalformedManifest(t *testing.T) {
	datadir := stage(t, map[string]string{
		"report.csv":          "a,b\n",
		"report.csv.manifest": `{"name":`,
	})

	input := New(datadir)

	file := File{Name: "report.csv", Path: input.FilePath("report.csv")}

	if title := input.Title(file); title != "report.csv" {
		t.Errorf("Incorrect title - expected:%v, got:%v", "report.csv", title)
	}
}
