// Package cli builds cgwt's cobra command tree and is shared by the cgwt
// binary and the deprecated claude-gwt alias, so the alias can forward to
// the real root command in-process rather than re-executing cgwt.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cgwt/internal/app"
	"github.com/alexisbeaulieu97/cgwt/internal/buildinfo"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/tui"
)

type contextKey string

const appContextKey contextKey = "app"

var (
	verbosity   int
	showVersion bool
	configPath  string

	rootCmd = &cobra.Command{
		Use:   "cgwt",
		Short: "Fleet-manage git branch workspaces behind a shared object store",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || showVersion {
				return nil
			}

			logger := loggerFromFlags()

			appInstance, err := app.New(verbosity > 0, app.WithConfigPath(configPath), app.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), appContextKey, appInstance)
			cmd.SetContext(ctx)
			cmd.Root().SetContext(ctx)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "cgwt version %s\n", buildinfo.Version) //nolint:forbidigo // user-facing CLI output
				return nil
			}

			return runApp(cmd, args)
		},
	}

	// menu is the shared interactive-menu implementation wired into every
	// Controller this process builds.
	menu = tui.Menu{}
)

// loggerFromFlags resolves the effective log level from -v/-vv/-vvv,
// overridden by CGWT_LOG_LEVEL per spec §6's environment variable table.
func loggerFromFlags() *logging.Logger {
	v := verbosity
	if raw := os.Getenv("CGWT_LOG_LEVEL"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			v = parsed
		}
	}

	return logging.NewFromVerbosity(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (overrides CGWT_CONFIG and default search locations)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Print version information and exit")

	rootCmd.AddCommand(appCmd, listCmd, attachCmd, splitCmd, logsCmd)
}

// Execute parses args against cgwt's root command and runs it, returning the
// process exit code the caller should use.
func Execute(args []string) int {
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitCodeError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}

			return exitErr.Code
		}

		fmt.Fprintln(os.Stderr, err)

		if app.IsExitError(err) {
			return 1
		}

		return 2
	}

	return 0
}

func getApp(cmd *cobra.Command) (*app.App, error) {
	value := cmd.Context().Value(appContextKey)
	if value == nil {
		return nil, cerrors.NewInternalError("app not initialized", nil)
	}

	appInstance, ok := value.(*app.App)
	if !ok {
		return nil, cerrors.NewInternalError("invalid app in context", nil)
	}

	return appInstance, nil
}
