package writer

import (
	"context"
	"io"
	"net/url"

	"github.com/gdrive-utils/gdrive-writer/config"
)

// processSpreadsheet synchronizes a spreadsheet-typed table entry: resolve
// or create the remote spreadsheet, reconcile file metadata and the sheet
// set, then push each declared sheet's values. Failed sub-steps are not
// rolled back - the remote side may be left partially mutated.
func (w *Writer) processSpreadsheet(ctx context.Context, table config.TableEntry) (ItemResult, error) {
	spreadsheet, err := w.resolveSpreadsheet(ctx, &table)
	if err != nil {
		return ItemResult{}, err
	}

	remote, found, err := w.service.GetFile(ctx, table.FileID, []string{"id", "name", "parents"})
	if err != nil {
		return ItemResult{}, err
	}

	if !found {
		return ItemResult{}, applicationErrorf(nil, "spreadsheet '%s' (%s) has no file metadata", table.Title, table.FileID)
	}

	if diff := diffFileMetadata(table.Title, folderId(table.Folder), remote); !diff.empty() {
		if _, err := w.service.UpdateFileMetadata(ctx, table.FileID, diff.renameTo, diff.addParents); err != nil {
			return ItemResult{}, err
		}
	}

	declared := []config.SheetEntry{}
	for _, sheet := range table.Sheets {
		if sheet.Enabled {
			declared = append(declared, sheet)
		}
	}

	if diff := diffSheetSet(declared, spreadsheet.Sheets); !diff.empty() {
		if err := w.service.BatchUpdateSpreadsheet(ctx, table.FileID, diff.requests()); err != nil {
			return ItemResult{}, err
		}

		// re-read to pick up the ids of freshly added sheets
		if spreadsheet, found, err = w.service.GetSpreadsheet(ctx, table.FileID); err != nil {
			return ItemResult{}, err
		} else if !found {
			return ItemResult{}, applicationErrorf(nil, "spreadsheet '%s' (%s) vanished during sheet reconciliation", table.Title, table.FileID)
		}
	}

	for _, sheet := range declared {
		sheetId, err := resolveSheetId(spreadsheet, sheet)
		if err != nil {
			return ItemResult{}, err
		}

		w.logger.Info("uploading sheet values", "spreadsheet", table.FileID, "sheet", sheet.Title, "action", string(sheet.Action))

		if err := w.uploadSheetValues(ctx, table.FileID, sheetId, sheet); err != nil {
			return ItemResult{}, err
		}
	}

	return ItemResult{
		ID:      table.ID,
		TableID: table.TableID,
		FileID:  table.FileID,
		Title:   table.Title,
		Status:  StatusOK,
	}, nil
}

// resolveSpreadsheet probes the remote spreadsheet by file id, creating it
// (with the declared sheet titles) when absent. A freshly created id is
// stamped back into the entry for downstream bookkeeping.
func (w *Writer) resolveSpreadsheet(ctx context.Context, table *config.TableEntry) (Spreadsheet, error) {
	if table.FileID != "" {
		spreadsheet, found, err := w.service.GetSpreadsheet(ctx, table.FileID)
		if err != nil {
			return Spreadsheet{}, err
		}

		if found {
			return spreadsheet, nil
		}
	}

	titles := []string{}
	for _, sheet := range table.Sheets {
		if sheet.Enabled {
			titles = append(titles, sheet.Title)
		}
	}

	if len(titles) == 0 {
		titles = []string{"Sheet1"}
	}

	spreadsheet, err := w.service.CreateSpreadsheet(ctx, table.Title, titles)
	if err != nil {
		return Spreadsheet{}, err
	}

	table.FileID = spreadsheet.SpreadsheetID

	return spreadsheet, nil
}

// uploadSheetValues pushes one sheet's CSV through the paginated bulk-write
// protocol: size the remote grid to the source, clear on update, then write
// or append batch by batch.
func (w *Writer) uploadSheetValues(ctx context.Context, spreadsheetId string, sheetId int64, sheet config.SheetEntry) error {
	batcher, err := newCSVBatcher(w.input.TablePath(sheet.TableID), w.limit)
	if err != nil {
		return userErrorf(err, "unresolved input table '%s' for sheet '%s'", sheet.TableID, sheet.Title)
	}

	defer batcher.Close()

	if batcher.TotalRowCount() == 0 {
		return nil
	}

	// the remote grid must never be smaller than the data
	resize := StructuralRequest{
		UpdateSheet: &UpdateSheetRequest{
			SheetID:     sheetId,
			Title:       sheet.Title,
			RowCount:    int64(batcher.TotalRowCount()),
			ColumnCount: int64(batcher.ColumnCount()),
		},
	}

	if err := w.service.BatchUpdateSpreadsheet(ctx, spreadsheetId, []StructuralRequest{resize}); err != nil {
		return err
	}

	if sheet.Action == config.ActionUpdate {
		if err := w.service.ClearValues(ctx, spreadsheetId, url.PathEscape(sheet.Title)); err != nil {
			return err
		}
	}

	offset := 1
	for {
		batch, err := batcher.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		switch sheet.Action {
		case config.ActionUpdate:
			area, err := a1Range(sheet.Title, batcher.ColumnCount(), offset, batcher.limit)
			if err != nil {
				return err
			}

			if err := w.service.WriteValues(ctx, spreadsheetId, area, asValues(batch)); err != nil {
				return err
			}

		case config.ActionAppend:
			if err := w.service.AppendValues(ctx, spreadsheetId, sheet.Title, asValues(batch)); err != nil {
				return err
			}

		default:
			return applicationErrorf(nil, "action '%s' not allowed for sheet '%s'", sheet.Action, sheet.Title)
		}

		offset += len(batch)
	}

	return nil
}

func resolveSheetId(spreadsheet Spreadsheet, sheet config.SheetEntry) (int64, error) {
	if sheet.SheetID != nil {
		return *sheet.SheetID, nil
	}

	for _, remote := range spreadsheet.Sheets {
		if remote.Title == sheet.Title {
			return remote.SheetID, nil
		}
	}

	return 0, applicationErrorf(nil, "unable to resolve sheet '%s' in spreadsheet '%s'", sheet.Title, spreadsheet.SpreadsheetID)
}
