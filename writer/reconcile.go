package writer

import (
	"github.com/gdrive-utils/gdrive-writer/config"
)

// metadataDiff is the minimal mutation set needed to bring a remote file's
// metadata in line with its declared title and folder. Parents are only ever
// added - removing a parent the writer didn't create could orphan the file
// from folders it doesn't own.
type metadataDiff struct {
	renameTo   string
	addParents []string
}

func (d metadataDiff) empty() bool {
	return d.renameTo == "" && len(d.addParents) == 0
}

func diffFileMetadata(title string, folderId string, remote FileMeta) metadataDiff {
	diff := metadataDiff{}

	if title != remote.Name {
		diff.renameTo = title
	}

	if folderId != "" {
		present := false
		for _, parent := range remote.Parents {
			if parent == folderId {
				present = true
			}
		}

		if !present {
			diff.addParents = append(diff.addParents, folderId)
		}
	}

	return diff
}

// sheetSetDiff is the add/remove set that reconciles a declared sheet list
// against the remote spreadsheet's actual sheets, keyed by sheet id. A
// declared sheet without an id adopts a remote sheet with the same title if
// one exists (duplicate titles are invalid remotely) and is otherwise a
// create; a remote sheet that stays unmatched is scheduled for deletion.
// Adds are ordered before
// removes in the structural call so the spreadsheet never transiently loses
// its last sheet.
type sheetSetDiff struct {
	toAdd    []config.SheetEntry
	toRemove []Sheet
}

func (d sheetSetDiff) empty() bool {
	return len(d.toAdd) == 0 && len(d.toRemove) == 0
}

func (d sheetSetDiff) requests() []StructuralRequest {
	requests := []StructuralRequest{}

	for _, sheet := range d.toAdd {
		requests = append(requests, StructuralRequest{
			AddSheet: &AddSheetRequest{
				Title: sheet.Title,
			},
		})
	}

	for _, sheet := range d.toRemove {
		requests = append(requests, StructuralRequest{
			DeleteSheet: &DeleteSheetRequest{
				SheetID: sheet.SheetID,
			},
		})
	}

	return requests
}

func diffSheetSet(declared []config.SheetEntry, remote []Sheet) sheetSetDiff {
	diff := sheetSetDiff{}

	byTitle := map[string]int64{}
	for _, sheet := range remote {
		byTitle[sheet.Title] = sheet.SheetID
	}

	declaredIds := map[int64]bool{}
	for _, sheet := range declared {
		if sheet.SheetID != nil {
			declaredIds[*sheet.SheetID] = true
		} else if id, ok := byTitle[sheet.Title]; ok {
			declaredIds[id] = true
		} else {
			diff.toAdd = append(diff.toAdd, sheet)
		}
	}

	for _, sheet := range remote {
		if !declaredIds[sheet.SheetID] {
			diff.toRemove = append(diff.toRemove, sheet)
		}
	}

	return diff
}
