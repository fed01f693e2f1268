package commands

import (
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/gdrive-utils/gdrive-writer/config"
	"github.com/gdrive-utils/gdrive-writer/writer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var createFileOptions = struct {
	data string
}{}

var createFileCmd = &cobra.Command{
	Use:   "create-file",
	Short: "Creates the remote file for the first configured table and prints its metadata as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return syncAction(func() (any, error) {
			cfg, err := config.Load(createFileOptions.data)
			if err != nil {
				return nil, &writer.UserError{Message: err.Error(), Err: err}
			}

			table, err := firstTable(cfg)
			if err != nil {
				return nil, err
			}

			w, err := makeWriter(cmd, cfg)
			if err != nil {
				return nil, err
			}

			created, err := w.CreateFileMetadata(cmd.Context(), table)
			if err != nil {
				return nil, err
			}

			return created, nil
		})
	},
}

func init() {
	createFileCmd.Flags().StringVar(&createFileOptions.data, "data", "", "Data directory with config.json")
	createFileCmd.MarkFlagRequired("data")
}

func firstTable(cfg *config.Config) (config.TableEntry, error) {
	for _, table := range cfg.Parameters.Tables {
		if table.Enabled {
			return table, nil
		}
	}

	return config.TableEntry{}, &writer.UserError{Message: "no enabled table configured"}
}

// syncAction runs a non-run action and prints its machine-readable result
// object on stdout - {status, file} on success, {status, error, message} on
// a user error.
func syncAction(action func() (any, error)) error {
	result, err := action()
	if err != nil {
		var uerr *writer.UserError
		if errors.As(err, &uerr) {
			print(map[string]any{
				"status":  "error",
				"error":   "User Error",
				"message": uerr.Message,
			})
		}

		return err
	}

	print(map[string]any{
		"status": "ok",
		"file":   result,
	})

	return nil
}

func print(v any) {
	if bytes, err := json.Marshal(v); err == nil {
		fmt.Fprintln(os.Stdout, string(bytes))
	}
}
