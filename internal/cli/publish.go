package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/seaice-fubu-explorer/internal/adapter/kafka"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/pipeline"
)

// PublishResult summarises a publish run.
type PublishResult struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Topic     string `json:"topic" yaml:"topic"`
	Published int    `json:"published" yaml:"published"`
}

// NewPublishCommand creates the publish command.
func NewPublishCommand(rootOpts *RootOptions) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish every selectable year's figure to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			if topic != "" {
				s.cfg.KafkaFigureTopic = topic
			}

			writer := kafkaadapter.NewWriter(s.cfg, s.logger)
			defer writer.Close()

			p := pipeline.NewPublisher(s.service, writer, s.logger, s.metrics, s.cfg.BatchSize)
			n, err := p.Publish(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "publish", err)
			}

			res := PublishResult{RunID: writer.RunID(), Topic: s.cfg.KafkaFigureTopic, Published: n}
			return render(cmd.OutOrStdout(), rootOpts.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "published %d figure(s) to %s (run %s)\n", res.Published, res.Topic, res.RunID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "override KAFKA_FIGURE_TOPIC")
	return cmd
}
