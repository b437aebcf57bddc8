package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
	"github.com/alexisbeaulieu97/cgwt/internal/output"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// fleetSession is one globally-visible cgwt- session, resolved back to its
// owning project by matching against the project's own supervisor session
// name (the only session whose branch segment, "supervisor", is known
// without ambiguity).
type fleetSession struct {
	N       int
	Project string
	P       int
	Branch  string
	ports.SessionInfo
}

// listFleet enumerates every live cgwt- session across every project on this
// host and assigns the two index forms spec §6's `attach <index>` accepts:
// a flat ordinal N, and a P.B pair where P is the project's ordinal by first
// appearance in the name-sorted session list and B is the branch.
func listFleet(ctx context.Context, mux ports.MultiplexerDriver) ([]fleetSession, error) {
	sessions, err := mux.ListSessions(ctx, orchestrator.SessionPrefix)
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })

	projectPrefixes := make(map[string]string) // project -> "cgwt-<project>-"

	for _, s := range sessions {
		if project, ok := strings.CutSuffix(strings.TrimPrefix(s.Name, orchestrator.SessionPrefix), "-supervisor"); ok {
			projectPrefixes[project] = orchestrator.SessionPrefix + project + "-"
		}
	}

	projects := make([]string, 0, len(projectPrefixes))
	for p := range projectPrefixes {
		projects = append(projects, p)
	}

	sort.Strings(projects)

	projectOrdinal := make(map[string]int, len(projects))
	for i, p := range projects {
		projectOrdinal[p] = i + 1
	}

	result := make([]fleetSession, 0, len(sessions))

	for i, s := range sessions {
		project, branch := "", strings.TrimPrefix(s.Name, orchestrator.SessionPrefix)

		for p, prefix := range projectPrefixes {
			if rest, ok := strings.CutPrefix(s.Name, prefix); ok {
				project, branch = p, rest
				break
			}
		}

		if project == "" {
			if p, ok := strings.CutSuffix(branch, "-supervisor"); ok {
				project, branch = p, "supervisor"
			}
		}

		result = append(result, fleetSession{
			N:           i + 1,
			Project:     project,
			P:           projectOrdinal[project],
			Branch:      branch,
			SessionInfo: s,
		})
	}

	return result, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List live cgwt sessions across every project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		activeOnly, _ := cmd.Flags().GetBool("active-only")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		sessions, err := listFleet(cmd.Context(), a.Mux)
		if err != nil {
			return err
		}

		if activeOnly {
			filtered := sessions[:0]

			for _, s := range sessions {
				if s.Attached {
					filtered = append(filtered, s)
				}
			}

			sessions = filtered
		}

		if jsonOutput {
			return output.PrintJSON(map[string]interface{}{"sessions": sessions})
		}

		for _, s := range sessions {
			index := fmt.Sprintf("%d.%s", s.P, s.Branch)
			status := "detached"

			if s.Attached {
				status = "attached"
			}

			output.Infof("%-3d %-24s %-10s %s (%s, %d windows)", s.N, index, s.Branch, s.Name, status, s.Windows)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().Bool("active-only", false, "Only show sessions with an attached client")
	listCmd.Flags().Bool("json", false, "Output in JSON format")
}
