package writer

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/gdrive-utils/gdrive-writer/config"
	"github.com/gdrive-utils/gdrive-writer/input"
)

// ProcessFiles uploads every staged input file, in enumeration order, to
// the shared folder. Remote counterparts are resolved by exact-name query
// and the most recent match adopted - duplicate remote names are feasible
// and picking one is a documented limitation. Per-item failure isolation
// and the aggregate status follow the same rules as ProcessTables.
func (w *Writer) ProcessFiles(ctx context.Context, files *config.FilesConfig) (*BatchResult, error) {
	batch := &BatchResult{
		Status:  StatusOK,
		Results: []ItemResult{},
	}

	staged, err := w.input.Files()
	if err != nil {
		return nil, err
	}

	var folder *config.Folder
	if files != nil {
		folder = files.Folder
	}

	for _, f := range staged {
		w.logger.Info("processing file", "file", f.Name)

		result, err := w.processInputFile(ctx, f, folder)
		if err != nil {
			if warning, ok := w.warning(err, f.Name); ok {
				batch.Warnings = append(batch.Warnings, warning)
				continue
			}

			return nil, escalate(err)
		}

		batch.Results = append(batch.Results, result)
	}

	if len(staged) > 0 && len(batch.Results) == 0 {
		batch.Status = StatusError
	}

	return batch, nil
}

func (w *Writer) processInputFile(ctx context.Context, f input.File, folder *config.Folder) (ItemResult, error) {
	title := w.input.Title(f)

	matches, err := w.service.ListFiles(ctx, fmt.Sprintf("trashed=false and name='%s'", title))
	if err != nil {
		return ItemResult{}, err
	}

	if len(matches) > 0 {
		existing := matches[0]

		if diff := diffFileMetadata(title, folderId(folder), existing); !diff.empty() {
			if _, err := w.service.UpdateFileMetadata(ctx, existing.ID, diff.renameTo, diff.addParents); err != nil {
				return ItemResult{}, err
			}
		}

		if _, err := w.uploadContent(ctx, existing.ID, f.Path, contentType(f.Name)); err != nil {
			return ItemResult{}, err
		}

		return ItemResult{
			FileID: existing.ID,
			Title:  title,
			Status: StatusOK,
		}, nil
	}

	options := CreateOptions{
		MimeType: contentType(f.Name),
	}

	if id := folderId(folder); id != "" {
		options.Parents = []string{id}
	}

	meta, err := w.service.CreateFileMetadata(ctx, title, options)
	if err != nil {
		return ItemResult{}, err
	}

	if _, err := w.uploadContent(ctx, meta.ID, f.Path, contentType(f.Name)); err != nil {
		return ItemResult{}, err
	}

	return ItemResult{
		FileID: meta.ID,
		Title:  title,
		Status: StatusOK,
	}, nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}

	return "application/octet-stream"
}
