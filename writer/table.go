package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/gdrive-utils/gdrive-writer/config"
)

// createTable implements the 'create' action for a simple-file table: a new
// remote file named after the configured title plus a timestamp suffix, so
// repeated runs never collide.
func (w *Writer) createTable(ctx context.Context, table config.TableEntry) (ItemResult, error) {
	title := fmt.Sprintf("%s (%s)", table.Title, time.Now().Format("2006-01-02 15:04:05"))

	meta, err := w.createTableFile(ctx, table, title)
	if err != nil {
		return ItemResult{}, err
	}

	return ItemResult{
		ID:      table.ID,
		TableID: table.TableID,
		FileID:  meta.ID,
		Title:   meta.Name,
		Status:  StatusOK,
	}, nil
}

// updateTable implements the 'update' action: reconcile metadata and
// overwrite content when the remote file exists, fall back to create (with
// the plain title) when it doesn't. An empty fileId is "absent" without a
// remote probe.
func (w *Writer) updateTable(ctx context.Context, table config.TableEntry) (ItemResult, error) {
	if table.FileID == "" {
		meta, err := w.createTableFile(ctx, table, table.Title)
		if err != nil {
			return ItemResult{}, err
		}

		return ItemResult{
			ID:      table.ID,
			TableID: table.TableID,
			FileID:  meta.ID,
			Title:   meta.Name,
			Status:  StatusOK,
		}, nil
	}

	remote, found, err := w.service.GetFile(ctx, table.FileID, []string{"id", "name", "parents"})
	if err != nil {
		return ItemResult{}, err
	}

	if !found {
		meta, err := w.createTableFile(ctx, table, table.Title)
		if err != nil {
			return ItemResult{}, err
		}

		return ItemResult{
			ID:      table.ID,
			TableID: table.TableID,
			FileID:  meta.ID,
			Title:   meta.Name,
			Status:  StatusOK,
		}, nil
	}

	if diff := diffFileMetadata(table.Title, folderId(table.Folder), remote); !diff.empty() {
		if _, err := w.service.UpdateFileMetadata(ctx, table.FileID, diff.renameTo, diff.addParents); err != nil {
			return ItemResult{}, err
		}
	}

	pathname, err := w.sourcePath(table)
	if err != nil {
		return ItemResult{}, err
	}

	if _, err := w.uploadContent(ctx, table.FileID, pathname, "text/csv"); err != nil {
		return ItemResult{}, err
	}

	return ItemResult{
		ID:      table.ID,
		TableID: table.TableID,
		FileID:  table.FileID,
		Title:   table.Title,
		Status:  StatusOK,
	}, nil
}

// createTableFile creates the remote file metadata and uploads the staged
// CSV in one logical step. The two physical calls are not atomic - a failed
// content upload leaves an empty remote file behind, which is a documented
// limitation.
func (w *Writer) createTableFile(ctx context.Context, table config.TableEntry, title string) (FileMeta, error) {
	pathname, err := w.sourcePath(table)
	if err != nil {
		return FileMeta{}, err
	}

	options := CreateOptions{
		MimeType: "text/csv",
	}

	if table.Convert {
		options.MimeType = MimeTypeSpreadsheet
	}

	if id := folderId(table.Folder); id != "" {
		options.Parents = []string{id}
	}

	meta, err := w.service.CreateFileMetadata(ctx, title, options)
	if err != nil {
		return FileMeta{}, err
	}

	return w.uploadContent(ctx, meta.ID, pathname, "text/csv")
}
