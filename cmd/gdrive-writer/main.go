package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdrive-utils/gdrive-writer/commands"
	"github.com/gdrive-utils/gdrive-writer/writer"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to process exit codes: 1 for user
// errors, 2 for application/unexpected errors.
func exitCode(err error) int {
	var uerr *writer.UserError

	if errors.As(err, &uerr) {
		return 1
	}

	return 2
}
