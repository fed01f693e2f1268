package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gdrive-utils/gdrive-writer/config"
	"github.com/gdrive-utils/gdrive-writer/gdrive"
	"github.com/gdrive-utils/gdrive-writer/input"
	"github.com/gdrive-utils/gdrive-writer/writer"
)

var runOptions = struct {
	data    string
	retries int
	limit   int
}{
	retries: gdrive.DefaultRetries,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Uploads the staged tables and files from the data directory to Google Drive",
	Example: `  gdrive-writer run --data /data
  gdrive-writer run --data /data --credentials credentials.json --retries 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	runCmd.Flags().StringVar(&runOptions.data, "data", "", "Data directory with config.json and the in/tables, in/files payloads")
	runCmd.Flags().IntVar(&runOptions.retries, "retries", runOptions.retries, "Bounded retry count for transient Google API errors")
	runCmd.Flags().IntVar(&runOptions.limit, "batch-limit", 0, "Rows per value-write call (default 1000)")

	runCmd.MarkFlagRequired("data")
}

func run(cmd *cobra.Command) error {
	log := logger()
	ctx := cmd.Context()

	cfg, err := config.Load(runOptions.data)
	if err != nil {
		return &writer.UserError{Message: err.Error(), Err: err}
	}

	w, err := makeWriter(cmd, cfg)
	if err != nil {
		return err
	}

	batch, err := w.ProcessTables(ctx, cfg.Parameters.Tables)
	if err != nil {
		return err
	}

	if cfg.Parameters.Files != nil {
		files, err := w.ProcessFiles(ctx, cfg.Parameters.Files)
		if err != nil {
			return err
		}

		batch = merge(batch, files)
	}

	log.Info("batch complete", "results", len(batch.Results), "warnings", len(batch.Warnings))
	fmt.Printf("Writer finished with status: %s\n", batch.Status)

	return nil
}

func makeWriter(cmd *cobra.Command, cfg *config.Config) (*writer.Writer, error) {
	log := logger()

	client, err := gdrive.Authorize(options.credentials, options.workdir, gdrive.ScopeDrive, gdrive.ScopeSheets)
	if err != nil {
		return nil, &writer.UserError{Message: fmt.Sprintf("Google authentication/authorization error (%v)", err), Err: err}
	}

	service, err := gdrive.NewClient(cmd.Context(), client, runOptions.retries, log)
	if err != nil {
		return nil, err
	}

	w := writer.New(service, input.New(cfg.Parameters.DataDir), log)
	w.SetBatchLimit(runOptions.limit)

	return w, nil
}

// merge folds the files batch into the tables batch, recomputing the
// aggregate status over the combined item set.
func merge(tables *writer.BatchResult, files *writer.BatchResult) *writer.BatchResult {
	combined := &writer.BatchResult{
		Status:   writer.StatusOK,
		Results:  append(tables.Results, files.Results...),
		Warnings: append(tables.Warnings, files.Warnings...),
	}

	if len(combined.Warnings) > 0 && len(combined.Results) == 0 {
		combined.Status = writer.StatusError
	}

	return combined
}
