package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// resolveIndex maps spec §6's `<index>` (either a flat ordinal N or a P.B
// project.branch pair) to the matching live session.
func resolveIndex(ctx context.Context, mux ports.MultiplexerDriver, index string) (fleetSession, error) {
	sessions, err := listFleet(ctx, mux)
	if err != nil {
		return fleetSession{}, err
	}

	if n, convErr := strconv.Atoi(index); convErr == nil {
		for _, s := range sessions {
			if s.N == n {
				return s, nil
			}
		}

		return fleetSession{}, cerrors.NewInvalidArgument("index", "no session with ordinal "+index)
	}

	project, branch, ok := strings.Cut(index, ".")
	if !ok {
		return fleetSession{}, cerrors.NewInvalidArgument("index", "expected N or P.B, got "+index)
	}

	p, convErr := strconv.Atoi(project)
	if convErr != nil {
		return fleetSession{}, cerrors.NewInvalidArgument("index", "expected N or P.B, got "+index)
	}

	for _, s := range sessions {
		if s.P == p && s.Branch == branch {
			return s, nil
		}
	}

	return fleetSession{}, cerrors.NewInvalidArgument("index", "no session matching "+index)
}

var attachCmd = &cobra.Command{
	Use:   "attach <index>",
	Short: "Attach to a live cgwt session by ordinal or project.branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		session, err := resolveIndex(cmd.Context(), a.Mux, args[0])
		if err != nil {
			return err
		}

		return a.Mux.Attach(cmd.Context(), session.Name)
	},
}
