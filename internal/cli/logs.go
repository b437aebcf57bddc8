package cli

import (
	"github.com/spf13/cobra"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/output"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the log file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := logging.FilePath()
		if path == "" {
			return cerrors.NewInternalError("could not resolve home directory for log file path", nil)
		}

		output.Println(path)

		return nil
	},
}
