package writer

import (
	"context"

	"github.com/gdrive-utils/gdrive-writer/config"
)

// defaultFields is the metadata field set returned by the get-file sync
// action when the caller doesn't name its own.
var defaultFields = []string{"kind", "id", "name", "mimeType", "parents"}

// CreatedFile is the result of the create-file sync action - the new file's
// metadata plus the folder it was filed under ('root' when none was
// configured).
type CreatedFile struct {
	FileMeta
	Folder config.Folder `json:"folder"`
}

// CreateFileMetadata creates an empty remote file for a table entry without
// uploading any content. Used by the create-file sync action to reserve an
// id ahead of a batch run.
func (w *Writer) CreateFileMetadata(ctx context.Context, table config.TableEntry) (*CreatedFile, error) {
	options := CreateOptions{
		MimeType: "text/csv",
	}

	if table.Convert {
		options.MimeType = MimeTypeSpreadsheet
	}

	folder := config.Folder{
		ID: "root",
	}

	if table.Folder != nil && table.Folder.ID != "" {
		options.Parents = []string{table.Folder.ID}
		folder = *table.Folder
	}

	meta, err := w.service.CreateFileMetadata(ctx, table.Title, options)
	if err != nil {
		return nil, escalate(err)
	}

	return &CreatedFile{
		FileMeta: meta,
		Folder:   folder,
	}, nil
}

// GetFile retrieves a remote file's metadata for the get-file sync action.
func (w *Writer) GetFile(ctx context.Context, fileId string, fields []string) (FileMeta, error) {
	if len(fields) == 0 {
		fields = defaultFields
	}

	meta, found, err := w.service.GetFile(ctx, fileId, fields)
	if err != nil {
		return FileMeta{}, escalate(err)
	}

	if !found {
		return FileMeta{}, userErrorf(nil, "file '%s' not found", fileId)
	}

	return meta, nil
}
