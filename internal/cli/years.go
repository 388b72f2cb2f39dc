package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewYearsCommand creates the years command.
func NewYearsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the selectable years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			choice, err := s.service.Years()
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, choice, func(w io.Writer) error {
				for _, y := range choice.Years {
					mark := ""
					if y == choice.Default {
						mark = " (default)"
					}
					if _, err := fmt.Fprintf(w, "%d%s\n", y, mark); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
