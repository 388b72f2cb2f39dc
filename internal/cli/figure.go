package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
)

// NewFigureCommand creates the figure command.
func NewFigureCommand(rootOpts *RootOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "figure",
		Short: "Compose the overlay figure for one year",
		Long: `Compose the concentration trace, duration segments and event markers
for a year. Without --year the default selection is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("year") {
				choice, err := s.service.Years()
				if err != nil {
					return err
				}
				year = choice.Default
			}

			fig, err := s.service.Figure(cmd.Context(), year)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("figure %d", year), err)
			}
			view := fig.View()
			return render(cmd.OutOrStdout(), rootOpts.Format, view, func(w io.Writer) error {
				return writeFigureText(w, view)
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "year to compose")
	return cmd
}

func writeFigureText(w io.Writer, view domain.FigureView) error {
	if _, err := fmt.Fprintln(w, view.Layout.Title); err != nil {
		return err
	}
	for _, tr := range view.Traces {
		line := fmt.Sprintf("  %-8s %-22s %-5s n=%d", tr.Kind, tr.Name, tr.Source, len(tr.X))
		if len(tr.X) > 0 {
			line += fmt.Sprintf("  %s..%s", tr.X[0], tr.X[len(tr.X)-1])
		}
		if tr.Kind == domain.KindPoint && len(tr.Y) == 1 {
			line += fmt.Sprintf("  %.2f%%", tr.Y[0])
		}
		if tr.Summary != nil {
			line += fmt.Sprintf("  span=%dd mean=%.2f%%", tr.Summary.SpanDays, tr.Summary.Mean)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, issue := range view.Issues {
		if _, err := fmt.Fprintf(w, "  skipped: %s\n", issue); err != nil {
			return err
		}
	}
	return nil
}
