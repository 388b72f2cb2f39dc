// Package domain models daily sea-ice concentration and the freeze-up /
// break-up (FUBU) event dates labeled on top of it.
//
// # Data Source
//
// Concentration comes from NSIDC-0051 (Nimbus-7 SMMR / DMSP SSM/I-SSMIS
// passive microwave) extracted for the Utqiagvik (Barrow) test site and
// published by SNAP as sic_daily_vals.csv: a date index and a "sic" column
// holding the fraction of ocean covered by ice (0.0–1.0).
//
// Two label tables, one row per year, record the four FUBU dates:
//
//	breakup_start, breakup_end, freezeup_start, freezeup_end
//
// Source A ("Mark", barrow_fubu_dates_mark_nosmooth_mledit.csv) is the
// edited, higher-confidence set. Source B ("Mike",
// barrow_fubu_dates_michael_nosmooth.csv) is an independent algorithmic set.
// The two are never merged or reconciled; each is authoritative for its own
// overlays.
//
// # Missing Values
//
// A blank cell or "NaN" is missing in both tables; source B additionally uses
// the literal "0000". Missing values are an [EventDate] in the Missing state,
// never a sentinel date. A missing metric produces no point; a pair with a
// missing side produces no segment. Neither is an error.
//
// # Overlay Rules
//
//   - Points: for each source, for each metric in the fixed order above, a
//     present date is looked up exactly in the year's series. A date that is
//     not a sample date (including impossible days such as 2008-02-30) is an
//     [EventDateOutOfRangeError]: logged, recorded on the figure, and only that
//     point is skipped.
//   - Segments: for each pair (breakup, freezeup), for each source whose
//     ContributesSegments flag is set, the samples from start to end inclusive.
//     start after end is skipped with [ErrReversedPair].
//   - Draw order: base trace, segments, source B points, source A points.
//
// Concentration is scaled to percent (×100) when a year is sliced.
package domain
