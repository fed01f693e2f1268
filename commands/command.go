// Package commands wires the writer's CLI commands: the 'run' batch action,
// the create-file/get-file sync actions (JSON result on stdout), the OAuth2
// 'authorise' flow and 'version'.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const APP = "gdrive-writer"

var options = struct {
	credentials string
	workdir     string
	debug       bool
}{
	credentials: DEFAULT_CREDENTIALS,
	workdir:     DEFAULT_WORKDIR,
	debug:       false,
}

var rootCmd = &cobra.Command{
	Use:           APP,
	Short:         "Synchronizes locally staged CSV tables and files with Google Drive and Google Sheets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&options.credentials, "credentials", options.credentials, "Path for the OAuth2 'credentials.json' file")
	rootCmd.PersistentFlags().StringVar(&options.workdir, "workdir", options.workdir, "Directory for working files (cached tokens, etc)")
	rootCmd.PersistentFlags().BoolVar(&options.debug, "debug", options.debug, "Enables debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(createFileCmd)
	rootCmd.AddCommand(getFileCmd)
	rootCmd.AddCommand(authoriseCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI and returns the command error (mapped to an exit
// code by main).
func Execute() error {
	return rootCmd.Execute()
}

// logger builds the process logger - text on stderr, debug level when
// --debug is set.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if options.debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
