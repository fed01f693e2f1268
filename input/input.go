// Package input resolves the locally staged payloads for a batch run.
//
// The data directory follows the in/tables + in/files layout: tables are
// CSV files named after their table id, files are arbitrary binaries,
// optionally with a '<name>.manifest' JSON sidecar declaring the upload
// title.
package input

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// File is one staged input file, in enumeration order.
type File struct {
	Name string
	Path string
}

type Input struct {
	datadir string
}

func New(datadir string) *Input {
	return &Input{
		datadir: datadir,
	}
}

// TablePath is the staged CSV for a configured table id.
func (i *Input) TablePath(tableId string) string {
	return filepath.Join(i.datadir, "in", "tables", fmt.Sprintf("%s.csv", tableId))
}

// FilePath is the staged path for an input file name.
func (i *Input) FilePath(name string) string {
	return filepath.Join(i.datadir, "in", "files", name)
}

// Files enumerates the staged input files in name order, excluding manifest
// sidecars.
func (i *Input) Files() ([]File, error) {
	dir := filepath.Join(i.datadir, "in", "files")

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to list input files (%w)", err)
	}

	files := []File{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".manifest") {
			continue
		}

		files = append(files, File{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(files, func(p, q int) bool { return files[p].Name < files[q].Name })

	return files, nil
}

// Title resolves the upload title for an input file - the name declared in
// the manifest sidecar if one exists, the file name otherwise.
func (i *Input) Title(file File) string {
	manifest := struct {
		Name string `json:"name"`
	}{}

	bytes, err := os.ReadFile(file.Path + ".manifest")
	if err != nil {
		return file.Name
	}

	if err := json.Unmarshal(bytes, &manifest); err != nil || manifest.Name == "" {
		return file.Name
	}

	return manifest.Name
}
