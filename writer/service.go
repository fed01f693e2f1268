package writer

import (
	"context"
	"io"
)

// MimeTypeSpreadsheet is the native spreadsheet MIME type - uploading CSV
// content with this type asks the service to convert it on the fly.
const MimeTypeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// FileMeta is the metadata subset of a remote document that the engine
// cares about.
type FileMeta struct {
	Kind     string `json:"kind,omitempty"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

// Sheet is one worksheet of a remote spreadsheet. SheetID is the service's
// stable identifier, distinct from the (mutable) title.
type Sheet struct {
	SheetID     int64
	Title       string
	RowCount    int64
	ColumnCount int64
}

// Spreadsheet is the remote spreadsheet document with its ordered sheet set.
type Spreadsheet struct {
	SpreadsheetID string
	Sheets        []Sheet
}

// CreateOptions are the optional attributes of a file create call.
type CreateOptions struct {
	Parents  []string
	MimeType string
}

// Structural sheet mutations, applied as a single batch-update call. Exactly
// one of the fields of a StructuralRequest is set.
type (
	AddSheetRequest struct {
		Title string
	}

	DeleteSheetRequest struct {
		SheetID int64
	}

	UpdateSheetRequest struct {
		SheetID     int64
		Title       string
		RowCount    int64
		ColumnCount int64
	}

	StructuralRequest struct {
		AddSheet    *AddSheetRequest
		DeleteSheet *DeleteSheetRequest
		UpdateSheet *UpdateSheetRequest
	}
)

// Service abstracts the remote document storage and spreadsheet API. The
// production implementation lives in the gdrive package; it is expected to
// handle credential refresh and transient-error retry internally and to
// surface failures as *TransportError.
//
// Existence checks return (zero, false, nil) when the remote side answers
// 404 - "not found" is an answer, not an error.
type Service interface {
	GetFile(ctx context.Context, id string, fields []string) (FileMeta, bool, error)
	ListFiles(ctx context.Context, query string) ([]FileMeta, error)
	CreateFileMetadata(ctx context.Context, name string, options CreateOptions) (FileMeta, error)
	UploadContent(ctx context.Context, fileId string, content io.Reader, contentType string) (FileMeta, error)
	UpdateFileMetadata(ctx context.Context, id string, name string, addParents []string) (FileMeta, error)

	GetSpreadsheet(ctx context.Context, id string) (Spreadsheet, bool, error)
	CreateSpreadsheet(ctx context.Context, title string, sheets []string) (Spreadsheet, error)
	BatchUpdateSpreadsheet(ctx context.Context, id string, requests []StructuralRequest) error

	ReadValues(ctx context.Context, spreadsheetId string, area string) ([][]interface{}, error)
	WriteValues(ctx context.Context, spreadsheetId string, area string, rows [][]interface{}) error
	AppendValues(ctx context.Context, spreadsheetId string, sheetTitle string, rows [][]interface{}) error
	ClearValues(ctx context.Context, spreadsheetId string, area string) error
}
