// Package writer implements the tabular synchronization engine: it turns a
// validated configuration entry plus a locally staged CSV/file into a
// sequence of idempotent calls against the remote document service.
package writer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/gdrive-utils/gdrive-writer/config"
	"github.com/gdrive-utils/gdrive-writer/input"
)

// Status is the aggregate outcome of a batch (or of one item of it).
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ItemResult is the per-item outcome collected by a batch run. FileID is
// stamped with the freshly created id when the item resolved to a create.
type ItemResult struct {
	ID      int    `json:"id"`
	TableID string `json:"tableId,omitempty"`
	FileID  string `json:"fileId"`
	Title   string `json:"title"`
	Status  Status `json:"status"`
}

// BatchResult is the batch-level result returned to the CLI layer. Items
// that degraded to a permission warning appear in Warnings, not in Results.
type BatchResult struct {
	Status   Status       `json:"status"`
	Results  []ItemResult `json:"results"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Writer runs the configured batch against a remote document service.
// Items are processed strictly sequentially - structural mutations on the
// same spreadsheet are not safe to issue concurrently and cross-item
// ordering carries no correctness requirement.
type Writer struct {
	service Service
	input   *input.Input
	logger  *slog.Logger
	limit   int
}

func New(service Service, in *input.Input, logger *slog.Logger) *Writer {
	return &Writer{
		service: service,
		input:   in,
		logger:  logger,
		limit:   defaultBatchLimit,
	}
}

// SetBatchLimit overrides the number of rows pushed per value-write call.
func (w *Writer) SetBatchLimit(limit int) {
	if limit > 0 {
		w.limit = limit
	}
}

// ProcessTables runs every enabled table entry in list order. A
// recoverable permission failure (403/forbidden) on one item is recorded as
// a warning and does not abort the batch; any other failure does. If every
// item degraded to a warning the aggregate status is "error"; an empty
// enabled list is a trivial success.
func (w *Writer) ProcessTables(ctx context.Context, tables []config.TableEntry) (*BatchResult, error) {
	batch := &BatchResult{
		Status:  StatusOK,
		Results: []ItemResult{},
	}

	items := 0
	for _, table := range tables {
		if !table.Enabled {
			continue
		}

		items++

		w.logger.Info("processing table", "id", table.ID, "title", table.Title, "action", string(table.Action))

		result, err := w.processTable(ctx, table)
		if err != nil {
			if warning, ok := w.warning(err, table.Title); ok {
				batch.Warnings = append(batch.Warnings, warning)
				continue
			}

			return nil, escalate(err)
		}

		batch.Results = append(batch.Results, result)
	}

	if items > 0 && len(batch.Results) == 0 {
		batch.Status = StatusError
	}

	return batch, nil
}

func (w *Writer) processTable(ctx context.Context, table config.TableEntry) (ItemResult, error) {
	if table.Convert && len(table.Sheets) > 0 {
		return w.processSpreadsheet(ctx, table)
	}

	switch table.Action {
	case config.ActionCreate:
		return w.createTable(ctx, table)

	case config.ActionUpdate:
		return w.updateTable(ctx, table)
	}

	return ItemResult{}, applicationErrorf(nil, "action '%s' doesn't exist - use either 'create' or 'update'", table.Action)
}

// warning converts a classified recoverable permission failure into a
// recorded warning, leaving every other error untouched.
func (w *Writer) warning(err error, resource string) (string, bool) {
	var terr *TransportError

	if !errors.As(err, &terr) {
		return "", false
	}

	if Classify(terr.StatusCode, terr.Reason) != ClassRecoverableWarning {
		return "", false
	}

	warning := fmt.Sprintf("You don't have access to Google Drive resource '%s'", resource)
	w.logger.Warn(warning, "status", terr.StatusCode, "reason", terr.Reason)

	return warning, true
}

// escalate maps a transport failure that aborts the batch onto the error
// taxonomy the CLI layer understands.
func escalate(err error) error {
	var terr *TransportError

	if !errors.As(err, &terr) {
		return err
	}

	switch Classify(terr.StatusCode, terr.Reason) {
	case ClassFatalAuth:
		return userErrorf(err, "Expired or wrong credentials, please reauthorize")

	case ClassFatalPermission:
		return userErrorf(err, "Reason: %s", terr.Reason)

	case ClassUserConfig:
		return userErrorf(err, "%v", terr)

	case ClassTransient:
		return userErrorf(err, "Google API error: %v", terr)
	}

	return applicationErrorf(err, "%v", terr)
}

// sourcePath resolves the staged payload for a table entry.
func (w *Writer) sourcePath(table config.TableEntry) (string, error) {
	if table.TableID == "" {
		return "", applicationErrorf(nil, "no input file or table specified for '%s'", table.Title)
	}

	return w.input.TablePath(table.TableID), nil
}

// uploadContent streams a staged payload to an existing remote file. The
// handle is released on every exit path.
func (w *Writer) uploadContent(ctx context.Context, fileId string, pathname string, contentType string) (FileMeta, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return FileMeta{}, userErrorf(err, "unresolved input source '%s'", pathname)
	}

	defer f.Close()

	return w.service.UploadContent(ctx, fileId, f, contentType)
}

func folderId(folder *config.Folder) string {
	if folder == nil {
		return ""
	}

	return folder.ID
}
