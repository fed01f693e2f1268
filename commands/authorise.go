package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gdrive-utils/gdrive-writer/gdrive"
)

var authoriseCmd = &cobra.Command{
	Use:     "authorise",
	Aliases: []string{"authorize"},
	Short:   "Authorises gdrive-writer to access Google Drive and Google Sheets",
	Example: `  gdrive-writer authorise --credentials credentials.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gdrive.Authenticate(options.credentials, options.workdir, gdrive.ScopeDrive, gdrive.ScopeSheets); err != nil {
			return fmt.Errorf("authorisation error (%w)", err)
		}

		fmt.Printf("Cached OAuth2 token in %s\n", options.workdir)

		return nil
	},
}
