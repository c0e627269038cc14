package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/broker"
	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/registry"
	"github.com/shaiso/fedflow/internal/telemetry"
)

func newDatasetConsumeCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var prefetch int
	var user, password string

	cmd := &cobra.Command{
		Use:   "consume DATASET_ID",
		Short: "Stream records of a broker-backed dataset to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			datasetID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid dataset id %q", args[0])
			}

			// Брокер и топик берём из реестра
			resp, err := client.GetTopicDetails(args[0])
			if err != nil {
				return err
			}
			detail := domain.TopicDetail{
				DatasetID:  datasetID,
				BrokerName: resp.BrokerName,
				Host:       resp.Host,
				Port:       resp.Port,
				TopicName:  resp.TopicName,
			}

			logger := telemetry.SetupLogger()

			url := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, detail.Host, detail.Port)
			conn, err := broker.NewConnection(url, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			stream := broker.NewStream(conn, logger, broker.StreamConfig{
				Detail:   detail,
				Prefetch: prefetch,
				Handler: func(ctx context.Context, rec *broker.Record) error {
					fmt.Fprintln(os.Stdout, string(rec.Body))
					return rec.Ack()
				},
			})

			out.Success(fmt.Sprintf("Consuming %s/%s (Ctrl-C to stop)", detail.BrokerName, detail.TopicName))

			if err := stream.Start(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&prefetch, "prefetch", 1, "Number of records to prefetch")
	cmd.Flags().StringVar(&user, "broker-user", "fedflow", "Broker user")
	cmd.Flags().StringVar(&password, "broker-password", "fedflow", "Broker password")

	return cmd
}
