// Package gdrive implements the writer's remote document service over the
// Google Drive v3 and Sheets v4 APIs. Transient-error retry, the 403
// backoff policy and credential refresh all live here, beneath the engine.
package gdrive

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gdrive-utils/gdrive-writer/writer"
)

// DefaultRetries is the bounded retry count for transient failures.
const DefaultRetries = 7

// Client implements writer.Service against the live Google APIs.
type Client struct {
	drive   *drive.Service
	sheets  *sheets.Service
	retries int
	logger  *slog.Logger
}

func NewClient(ctx context.Context, client *http.Client, retries int, logger *slog.Logger) (*Client, error) {
	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Google Drive client")
	}

	gsheets, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Google Sheets client")
	}

	if retries < 1 {
		retries = DefaultRetries
	}

	return &Client{
		drive:   gdrive,
		sheets:  gsheets,
		retries: retries,
		logger:  logger,
	}, nil
}

func (c *Client) GetFile(ctx context.Context, id string, fields []string) (writer.FileMeta, bool, error) {
	var file *drive.File

	err := c.retry(ctx, "files.get", func() error {
		call := c.drive.Files.Get(id).SupportsAllDrives(true)
		if len(fields) > 0 {
			call = call.Fields(googleapi.Field(strings.Join(fields, ",")))
		}

		f, err := call.Context(ctx).Do()
		file = f

		return err
	})

	if notFound(err) {
		return writer.FileMeta{}, false, nil
	} else if err != nil {
		return writer.FileMeta{}, false, transportError(err)
	}

	return fileMeta(file), true, nil
}

func (c *Client) ListFiles(ctx context.Context, query string) ([]writer.FileMeta, error) {
	var list *drive.FileList

	err := c.retry(ctx, "files.list", func() error {
		l, err := c.drive.Files.List().
			Q(query).
			Fields("files(kind,id,name,mimeType,parents)").
			Context(ctx).
			Do()
		list = l

		return err
	})

	if err != nil {
		return nil, transportError(err)
	}

	files := make([]writer.FileMeta, len(list.Files))
	for i, f := range list.Files {
		files[i] = fileMeta(f)
	}

	return files, nil
}

func (c *Client) CreateFileMetadata(ctx context.Context, name string, options writer.CreateOptions) (writer.FileMeta, error) {
	var file *drive.File

	err := c.retry(ctx, "files.create", func() error {
		f, err := c.drive.Files.Create(&drive.File{
			Name:     name,
			Parents:  options.Parents,
			MimeType: options.MimeType,
		}).Fields("kind,id,name,mimeType,parents").Context(ctx).Do()
		file = f

		return err
	})

	if err != nil {
		return writer.FileMeta{}, transportError(err)
	}

	return fileMeta(file), nil
}

func (c *Client) UploadContent(ctx context.Context, fileId string, content io.Reader, contentType string) (writer.FileMeta, error) {
	// no retry - the reader can't be rewound after a partial upload
	file, err := c.drive.Files.Update(fileId, &drive.File{}).
		Media(content, googleapi.ContentType(contentType)).
		Fields("kind,id,name,mimeType,parents").
		Context(ctx).
		Do()

	if err != nil {
		return writer.FileMeta{}, transportError(err)
	}

	return fileMeta(file), nil
}

func (c *Client) UpdateFileMetadata(ctx context.Context, id string, name string, addParents []string) (writer.FileMeta, error) {
	var file *drive.File

	err := c.retry(ctx, "files.update", func() error {
		call := c.drive.Files.Update(id, &drive.File{Name: name}).
			Fields("kind,id,name,mimeType,parents")

		if len(addParents) > 0 {
			call = call.AddParents(strings.Join(addParents, ","))
		}

		f, err := call.Context(ctx).Do()
		file = f

		return err
	})

	if err != nil {
		return writer.FileMeta{}, transportError(err)
	}

	return fileMeta(file), nil
}

func (c *Client) GetSpreadsheet(ctx context.Context, id string) (writer.Spreadsheet, bool, error) {
	var spreadsheet *sheets.Spreadsheet

	err := c.retry(ctx, "spreadsheets.get", func() error {
		s, err := c.sheets.Spreadsheets.Get(id).Context(ctx).Do()
		spreadsheet = s

		return err
	})

	if notFound(err) {
		return writer.Spreadsheet{}, false, nil
	} else if err != nil {
		return writer.Spreadsheet{}, false, transportError(err)
	}

	return asSpreadsheet(spreadsheet), true, nil
}

func (c *Client) CreateSpreadsheet(ctx context.Context, title string, titles []string) (writer.Spreadsheet, error) {
	rq := sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
	}

	for _, t := range titles {
		rq.Sheets = append(rq.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{
				Title: t,
			},
		})
	}

	var spreadsheet *sheets.Spreadsheet

	err := c.retry(ctx, "spreadsheets.create", func() error {
		s, err := c.sheets.Spreadsheets.Create(&rq).Context(ctx).Do()
		spreadsheet = s

		return err
	})

	if err != nil {
		return writer.Spreadsheet{}, transportError(err)
	}

	return asSpreadsheet(spreadsheet), nil
}

func (c *Client) BatchUpdateSpreadsheet(ctx context.Context, id string, requests []writer.StructuralRequest) error {
	rq := sheets.BatchUpdateSpreadsheetRequest{}

	for _, request := range requests {
		switch {
		case request.AddSheet != nil:
			rq.Requests = append(rq.Requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: request.AddSheet.Title,
					},
				},
			})

		case request.DeleteSheet != nil:
			rq.Requests = append(rq.Requests, &sheets.Request{
				DeleteSheet: &sheets.DeleteSheetRequest{
					SheetId: request.DeleteSheet.SheetID,
				},
			})

		case request.UpdateSheet != nil:
			rq.Requests = append(rq.Requests, &sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: request.UpdateSheet.SheetID,
						Title:   request.UpdateSheet.Title,
						GridProperties: &sheets.GridProperties{
							RowCount:    request.UpdateSheet.RowCount,
							ColumnCount: request.UpdateSheet.ColumnCount,
						},
					},
					Fields: "title,gridProperties",
				},
			})
		}
	}

	err := c.retry(ctx, "spreadsheets.batchUpdate", func() error {
		_, err := c.sheets.Spreadsheets.BatchUpdate(id, &rq).Context(ctx).Do()

		return err
	})

	if err != nil {
		return transportError(err)
	}

	return nil
}

func (c *Client) ReadValues(ctx context.Context, spreadsheetId string, area string) ([][]interface{}, error) {
	var values *sheets.ValueRange

	err := c.retry(ctx, "values.get", func() error {
		v, err := c.sheets.Spreadsheets.Values.Get(spreadsheetId, area).Context(ctx).Do()
		values = v

		return err
	})

	if err != nil {
		return nil, transportError(err)
	}

	return values.Values, nil
}

func (c *Client) WriteValues(ctx context.Context, spreadsheetId string, area string, rows [][]interface{}) error {
	rq := sheets.ValueRange{
		Range:          area,
		MajorDimension: "ROWS",
		Values:         rows,
	}

	err := c.retry(ctx, "values.update", func() error {
		_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetId, area, &rq).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		return err
	})

	if err != nil {
		return transportError(err)
	}

	return nil
}

func (c *Client) AppendValues(ctx context.Context, spreadsheetId string, sheetTitle string, rows [][]interface{}) error {
	rq := sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         rows,
	}

	err := c.retry(ctx, "values.append", func() error {
		_, err := c.sheets.Spreadsheets.Values.Append(spreadsheetId, sheetTitle, &rq).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		return err
	})

	if err != nil {
		return transportError(err)
	}

	return nil
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetId string, area string) error {
	err := c.retry(ctx, "values.clear", func() error {
		_, err := c.sheets.Spreadsheets.Values.Clear(spreadsheetId, area, &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()

		return err
	})

	if err != nil {
		return transportError(err)
	}

	return nil
}

// retry runs a call with exponential backoff, bounded by the configured
// retry count. 403s are retried unless the reason marks a hard quota or
// permission limit (the remote occasionally answers 403 for rate limiting).
func (c *Client) retry(ctx context.Context, op string, call func() error) error {
	delay := 500 * time.Millisecond

	var err error

	for attempt := 1; ; attempt++ {
		if err = call(); err == nil {
			return nil
		}

		if attempt >= c.retries || !retryable(err) {
			return err
		}

		c.logger.Debug("retrying remote call", "op", op, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(delay):
			delay *= 2
		}
	}
}

func retryable(err error) bool {
	var gerr *googleapi.Error

	if !errors.As(err, &gerr) {
		return false
	}

	switch {
	case gerr.Code == 429, gerr.Code >= 500:
		return true

	case gerr.Code == 403:
		return retryable403(reason(gerr))
	}

	return false
}

// retryable403 mirrors the service's quota behavior: hard permission and
// daily-limit reasons never recover, anything else may be rate limiting.
func retryable403(reason string) bool {
	switch reason {
	case "insufficientPermissions", "dailyLimitExceeded", "usageLimits.userRateLimitExceededUnreg":
		return false
	}

	return true
}

func notFound(err error) bool {
	var gerr *googleapi.Error

	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// transportError reduces a googleapi error to the status/reason pair the
// engine classifies on.
func transportError(err error) error {
	var gerr *googleapi.Error

	if !errors.As(err, &gerr) {
		return err
	}

	return &writer.TransportError{
		StatusCode: gerr.Code,
		Reason:     reason(gerr),
		Message:    gerr.Message,
	}
}

func reason(gerr *googleapi.Error) string {
	if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
		return gerr.Errors[0].Reason
	}

	return http.StatusText(gerr.Code)
}

func fileMeta(f *drive.File) writer.FileMeta {
	if f == nil {
		return writer.FileMeta{}
	}

	return writer.FileMeta{
		Kind:     f.Kind,
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Parents:  f.Parents,
	}
}

func asSpreadsheet(s *sheets.Spreadsheet) writer.Spreadsheet {
	spreadsheet := writer.Spreadsheet{
		SpreadsheetID: s.SpreadsheetId,
	}

	for _, sheet := range s.Sheets {
		if sheet.Properties == nil {
			continue
		}

		rows := int64(0)
		columns := int64(0)
		if sheet.Properties.GridProperties != nil {
			rows = sheet.Properties.GridProperties.RowCount
			columns = sheet.Properties.GridProperties.ColumnCount
		}

		spreadsheet.Sheets = append(spreadsheet.Sheets, writer.Sheet{
			SheetID:     sheet.Properties.SheetId,
			Title:       sheet.Properties.Title,
			RowCount:    rows,
			ColumnCount: columns,
		})
	}

	return spreadsheet
}
