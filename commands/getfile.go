package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdrive-utils/gdrive-writer/config"
	"github.com/gdrive-utils/gdrive-writer/writer"
)

var getFileOptions = struct {
	data   string
	fileId string
}{}

var getFileCmd = &cobra.Command{
	Use:   "get-file",
	Short: "Retrieves a remote file's metadata and prints it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return syncAction(func() (any, error) {
			cfg, err := config.Load(getFileOptions.data)
			if err != nil {
				return nil, &writer.UserError{Message: err.Error(), Err: err}
			}

			fileId := getFileOptions.fileId
			if fileId == "" {
				table, err := firstTable(cfg)
				if err != nil {
					return nil, err
				}

				fileId = table.FileID
			}

			if fileId == "" {
				return nil, &writer.UserError{Message: "no fileId configured"}
			}

			w, err := makeWriter(cmd, cfg)
			if err != nil {
				return nil, err
			}

			return w.GetFile(cmd.Context(), fileId, nil)
		})
	},
}

func init() {
	getFileCmd.Flags().StringVar(&getFileOptions.data, "data", "", "Data directory with config.json")
	getFileCmd.Flags().StringVar(&getFileOptions.fileId, "file-id", "", "Remote file id (defaults to the first configured table's fileId)")

	getFileCmd.MarkFlagRequired("data")
}
