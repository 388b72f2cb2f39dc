package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the label tables against the concentration series",
		Long: `Report impossible calendar days, dates outside their row's year, dates
with no concentration sample, reversed pairs and years without labels.
Missing values are expected and not reported. Exits 1 when anything is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			report, err := s.service.Validate()
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), rootOpts.Format, report, func(w io.Writer) error {
				return writeReportText(w, report)
			}); err != nil {
				return err
			}
			if n := report.Count(); n > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d issue(s) found", n))
			}
			return nil
		},
	}
}

func writeReportText(w io.Writer, report domain.Report) error {
	if _, err := fmt.Fprintf(w, "%d years checked\n", report.Years); err != nil {
		return err
	}
	ids := make([]string, 0, len(report.BySource))
	for id := range report.BySource {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		issues := report.BySource[id]
		if _, err := fmt.Fprintf(w, "%s: %d issue(s)\n", id, len(issues)); err != nil {
			return err
		}
		for _, issue := range issues {
			if _, err := fmt.Fprintf(w, "  %s\n", issue); err != nil {
				return err
			}
		}
	}
	for _, issue := range report.Coverage {
		if _, err := fmt.Fprintf(w, "coverage: %s\n", issue); err != nil {
			return err
		}
	}
	return nil
}
