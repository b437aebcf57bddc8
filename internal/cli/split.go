package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

var splitCmd = &cobra.Command{
	Use:   "split [target]",
	Short: "Split a new pane alongside a live cgwt session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		target := "1"
		if len(args) > 0 {
			target = args[0]
		}

		session, err := resolveIndex(cmd.Context(), a.Mux, target)
		if err != nil {
			return err
		}

		horizontal, _ := cmd.Flags().GetBool("horizontal")
		percentage, _ := cmd.Flags().GetInt("percentage")

		return a.Mux.SplitPane(cmd.Context(), ports.SplitOptions{
			SessionName: session.Name,
			Horizontal:  horizontal,
			Percentage:  percentage,
		})
	},
}

func init() {
	splitCmd.Flags().Bool("horizontal", false, "Split side-by-side instead of stacked")
	splitCmd.Flags().Int("percentage", 0, "Size of the new pane, in percent of the window")
}
