// Package cli implements the fubuctl command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/adapter/snap"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/config"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/observability"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/pipeline"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string
	DataDir string
}

// NewRootCommand creates the root command for fubuctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fubuctl",
		Short: "Sea-ice freeze-up/break-up figure tool",
		Long: `Compose NSIDC-0051 sea ice concentration figures for Utqiagvik with
the freeze-up and break-up dates of both label sources overlaid.

Tables are fetched from SNAP unless --data-dir (or DATA_DIR) names a local copy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "read tables from this directory instead of SNAP")

	cmd.AddCommand(NewFigureCommand(opts))
	cmd.AddCommand(NewYearsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPublishCommand(opts))

	return cmd
}

// session is the configuration and loaded service shared by subcommands.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	service *pipeline.Service
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	logger := cliLogger(cmd.ErrOrStderr(), opts.Verbose)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	mark, mike := sources(cfg)
	var opener snap.Opener
	if cfg.DataDir != "" {
		opener = snap.NewDir(cfg.DataDir)
	} else {
		opener = snap.NewClient(cfg.SICURL, cfg.FUBUMarkURL, cfg.FUBUMikeURL, cfg.FetchTimeout, logger)
	}

	svc := pipeline.NewService(snap.NewLoader(opener, mark, mike, logger), logger, metrics, cfg.MaxYear, cfg.DefaultYear)
	if err := svc.Load(cmd.Context()); err != nil {
		return nil, WrapExitError(ExitCommandError, "load tables", err)
	}
	return &session{cfg: cfg, logger: logger, metrics: metrics, service: svc}, nil
}

// sources returns the label sources with their segment flags applied.
func sources(cfg *config.Config) (domain.Source, domain.Source) {
	mark := domain.MarkSource()
	mark.ContributesSegments = cfg.MarkSegments
	mike := domain.MikeSource()
	mike.ContributesSegments = cfg.MikeSegments
	return mark, mike
}

func cliLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
