// Package config loads and validates the writer's declarative configuration.
//
// The configuration is a config.json file inside the --data directory,
// describing the tables and files to upload and the action to take for each.
// Validation happens entirely at this boundary - by the time a TableEntry
// reaches the engine, its action is one of the closed set and its defaults
// have been applied.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// Action is the closed set of per-item synchronization actions.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionAppend Action = "append"
)

// Run is the batch action; anything else in Config.Action is a sync action
// answered with a JSON object on stdout.
const Run = "run"

type Config struct {
	Action     string     `json:"action"`
	Parameters Parameters `json:"parameters"`
}

type Parameters struct {
	DataDir string       `json:"data_dir"`
	Tables  []TableEntry `json:"tables"`
	Files   *FilesConfig `json:"files"`
}

// TableEntry maps one local table to one remote file. A non-empty Sheets
// list (with Convert set) makes this a spreadsheet-typed entry, synchronized
// sheet by sheet instead of as an opaque content upload.
type TableEntry struct {
	ID      int          `json:"id"`
	TableID string       `json:"tableId"`
	FileID  string       `json:"fileId"`
	Title   string       `json:"title"`
	Folder  *Folder      `json:"folder"`
	Action  Action       `json:"action"`
	Enabled bool         `json:"enabled"`
	Convert bool         `json:"convert"`
	Sheets  []SheetEntry `json:"sheets"`
}

// SheetEntry binds one local table to one sheet of a spreadsheet-typed
// entry. A nil SheetID means "create a new sheet".
type SheetEntry struct {
	SheetID *int64 `json:"sheetId"`
	Title   string `json:"title"`
	TableID string `json:"tableId"`
	Action  Action `json:"action"`
	Enabled bool   `json:"enabled"`
}

type Folder struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type FilesConfig struct {
	Folder *Folder `json:"folder"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Load reads and validates config.json from the data directory, stamping
// the data directory itself into the parameters.
func Load(datadir string) (*Config, error) {
	bytes, err := os.ReadFile(filepath.Join(datadir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration (%w)", err)
	}

	config := Config{
		Action: Run,
	}

	if err := json.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("invalid configuration (%w)", err)
	}

	config.Parameters.DataDir = datadir

	if err := config.Parameters.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (p *Parameters) validate() error {
	seen := map[int]bool{}

	for i := range p.Tables {
		table := &p.Tables[i]

		if table.ID < 0 {
			return fmt.Errorf("table %v: 'id' must be a non-negative integer", i)
		}

		if seen[table.ID] {
			return fmt.Errorf("table %v: duplicate id %v", i, table.ID)
		}

		seen[table.ID] = true

		if table.Title == "" {
			return fmt.Errorf("table %v: 'title' is required", table.ID)
		}

		switch table.Action {
		case ActionCreate, ActionUpdate:
			// ok
		default:
			return fmt.Errorf("table %v: action '%s' doesn't exist - use either 'create' or 'update'", table.ID, table.Action)
		}

		for j := range table.Sheets {
			sheet := &table.Sheets[j]

			if sheet.Title == "" {
				return fmt.Errorf("table %v, sheet %v: 'title' is required", table.ID, j)
			}

			if sheet.TableID == "" {
				return fmt.Errorf("table %v, sheet '%s': 'tableId' is required", table.ID, sheet.Title)
			}

			switch sheet.Action {
			case ActionUpdate, ActionAppend:
				// ok
			default:
				return fmt.Errorf("table %v, sheet '%s': action '%s' doesn't exist - use either 'update' or 'append'", table.ID, sheet.Title, sheet.Action)
			}
		}
	}

	return nil
}

// UnmarshalJSON applies the 'enabled' default (true) before decoding.
func (t *TableEntry) UnmarshalJSON(bytes []byte) error {
	type entry TableEntry

	v := entry{
		Enabled: true,
	}

	if err := json.Unmarshal(bytes, &v); err != nil {
		return err
	}

	*t = TableEntry(v)

	return nil
}

// UnmarshalJSON applies the 'enabled' default (true) before decoding.
func (s *SheetEntry) UnmarshalJSON(bytes []byte) error {
	type entry SheetEntry

	v := entry{
		Enabled: true,
	}

	if err := json.Unmarshal(bytes, &v); err != nil {
		return err
	}

	*s = SheetEntry(v)

	return nil
}
