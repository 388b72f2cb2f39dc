package domain

import "fmt"

// Issue kinds reported by ValidateDataset.
const (
	IssueInvalidDay      = "invalid_calendar_day"
	IssueOutsideRowYear  = "date_outside_row_year"
	IssueNotInSeries     = "date_not_in_series"
	IssueReversedPair    = "reversed_pair"
	IssueRowWithoutData  = "row_without_series_data"
	IssueYearWithoutRows = "year_without_labels"
)

// Issue is one shape or consistency problem in the loaded tables.
type Issue struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Year   int    `json:"year" yaml:"year"`
	Kind   string `json:"kind" yaml:"kind"`
	Detail string `json:"detail" yaml:"detail"`
}

func (i Issue) String() string {
	if i.Source == "" {
		return fmt.Sprintf("%d %s: %s", i.Year, i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s %d %s: %s", i.Source, i.Year, i.Kind, i.Detail)
}

// Report groups the issues found per source. Missing fields and incomplete
// pairs are expected and never reported.
type Report struct {
	Years    int                `json:"years" yaml:"years"`
	BySource map[string][]Issue `json:"by_source" yaml:"by_source"`
	Coverage []Issue            `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// Count is the total number of issues.
func (r Report) Count() int {
	n := len(r.Coverage)
	for _, issues := range r.BySource {
		n += len(issues)
	}
	return n
}

// ValidateDataset checks every label row against the concentration series.
// maxYear clamps the years considered, as SelectableYears does.
func ValidateDataset(ds *Dataset, maxYear int) Report {
	years := ds.SelectableYears(maxYear)
	inSeries := make(map[int]bool, len(years))
	for _, y := range years {
		inSeries[y] = true
	}

	report := Report{Years: len(years), BySource: make(map[string][]Issue)}
	labeled := make(map[int]bool)

	for _, ls := range ds.Labels() {
		var issues []Issue
		for _, y := range ls.Table.Years() {
			if maxYear != 0 && y > maxYear {
				continue
			}
			row := ls.Table.Row(y)
			if !row.Empty() {
				labeled[y] = true
			}
			if !inSeries[y] {
				if !row.Empty() {
					issues = append(issues, Issue{Source: ls.Source.ID, Year: y, Kind: IssueRowWithoutData,
						Detail: "labels recorded for a year with no concentration samples"})
				}
				continue
			}
			issues = append(issues, validateRow(ds.Series(), ls.Source.ID, row)...)
		}
		report.BySource[ls.Source.ID] = issues
	}

	for _, y := range years {
		if !labeled[y] {
			report.Coverage = append(report.Coverage, Issue{Year: y, Kind: IssueYearWithoutRows,
				Detail: "no source labels any event"})
		}
	}
	return report
}

func validateRow(series *Series, source string, row EventRow) []Issue {
	var issues []Issue
	add := func(kind, format string, args ...any) {
		issues = append(issues, Issue{Source: source, Year: row.Year, Kind: kind, Detail: fmt.Sprintf(format, args...)})
	}

	for _, m := range metrics {
		d, ok := row.Date(m).Get()
		if !ok {
			continue
		}
		switch {
		case !d.Valid():
			add(IssueInvalidDay, "%s %s does not exist", m, d)
		case d.Year != row.Year:
			add(IssueOutsideRowYear, "%s %s falls outside %d", m, d, row.Year)
		default:
			if _, found := series.At(d); !found {
				add(IssueNotInSeries, "%s %s has no concentration sample", m, d)
			}
		}
	}

	for _, p := range pairs {
		start, okStart := row.Date(p.Start).Get()
		end, okEnd := row.Date(p.End).Get()
		if okStart && okEnd && start.After(end) {
			add(IssueReversedPair, "%s %s after %s %s", p.Start, start, p.End, end)
		}
	}
	return issues
}
