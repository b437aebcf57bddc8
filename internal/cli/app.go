package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/cgwt/internal/app"
)

var appCmd = &cobra.Command{
	Use:   "app [path]",
	Short: "Classify path and drive the guided controller",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runApp,
}

func runApp(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	a, err := getApp(cmd)
	if err != nil {
		return err
	}

	remoteURL, _ := cmd.Flags().GetString("repo")
	branch, _ := cmd.Flags().GetString("branch")
	quiet, _ := cmd.Flags().GetBool("quiet")
	interactiveSet := cmd.Flags().Changed("interactive")
	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	autoConvert, _ := cmd.Flags().GetBool("repo-convert")

	interactive := !noInteractive
	if !interactiveSet && !cmd.Flags().Changed("no-interactive") {
		interactive = term.IsTerminal(int(os.Stdout.Fd()))
	}

	controller := a.NewController(path, menu)

	opts := app.Options{
		Path:          path,
		RemoteURL:     remoteURL,
		Branch:        branch,
		Quiet:         quiet,
		NoInteractive: !interactive,
		AutoConvert:   autoConvert,
	}

	return controller.Run(cmd.Context(), opts)
}

func init() {
	// Registered on the root so both `cgwt [path] ...` (root's default Run)
	// and `cgwt app [path] ...` (the explicit subcommand) share one flag set.
	rootCmd.PersistentFlags().String("repo", "", "Remote URL to clone when initializing an empty directory")
	rootCmd.PersistentFlags().String("branch", "", "Branch to check out for the first workspace")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress the interactive menu and exit once the store is ready")
	rootCmd.PersistentFlags().Bool("interactive", false, "Force the interactive menu even when stdout is not a TTY")
	rootCmd.PersistentFlags().Bool("no-interactive", false, "Disable the interactive menu, matching --quiet's controller behavior")
	rootCmd.PersistentFlags().Bool("repo-convert", false, "Convert a plain git repository into a shared store")
}
