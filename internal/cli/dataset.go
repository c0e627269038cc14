package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/registry"
)

// NewDatasetCmd создаёт группу команд для управления датасетами.
func NewDatasetCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage datasets",
	}

	cmd.AddCommand(
		newDatasetRegisterCmd(clientFn, outputFn),
		newDatasetListCmd(clientFn, outputFn),
		newDatasetShowCmd(clientFn, outputFn),
		newDatasetTopicDetailsCmd(clientFn, outputFn),
		newDatasetLinkTopicCmd(clientFn, outputFn),
		newDatasetConsumeCmd(clientFn, outputFn),
		newDatasetDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newDatasetRegisterCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var description, source, userID string

	cmd := &cobra.Command{
		Use:   "register NAME",
		Short: "Register a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ds, err := client.RegisterDataset(registry.RegisterDatasetRequest{
				Name:        args[0],
				Description: description,
				Source:      source,
				UserID:      userID,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Dataset registered: %s", ds.ID))
			out.Print(
				[]string{"ID", "NAME", "SOURCE", "CREATED"},
				[][]string{{ds.ID, ds.Name, ds.Source, ds.CreatedAt}},
				ds,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Dataset description")
	cmd.Flags().StringVar(&source, "source", "", "Data origin (path, URL or broker name)")
	cmd.Flags().StringVar(&userID, "user", "", "User registering the dataset")

	return cmd
}

func newDatasetListCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			datasets, err := client.ListDatasets()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "SOURCE", "CREATED"}
			rows := make([][]string, len(datasets))
			for i, ds := range datasets {
				rows[i] = []string{ds.ID, ds.Name, ds.Source, ds.CreatedAt}
			}

			out.Print(headers, rows, datasets)
			return nil
		},
	}
}

func newDatasetShowCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show dataset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var ds *registry.DatasetResponse
			var err error
			if byName {
				ds, err = client.GetDatasetByName(args[0])
			} else {
				ds, err = client.GetDataset(args[0])
			}
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "DESCRIPTION", "SOURCE", "USER", "CREATED"},
				[][]string{{ds.ID, ds.Name, ds.Description, ds.Source, ds.UserID, ds.CreatedAt}},
				ds,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byName, "by-name", false, "Treat argument as dataset name instead of ID")

	return cmd
}

func newDatasetTopicDetailsCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "topic-details DATASET_ID",
		Short: "Show broker and topic of a streaming dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			detail, err := client.GetTopicDetails(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"DATASET_ID", "BROKER", "HOST", "PORT", "TOPIC"},
				[][]string{{detail.DatasetID, detail.BrokerName, detail.Host, strconv.Itoa(detail.Port), detail.TopicName}},
				detail,
			)
			return nil
		},
	}
}

func newDatasetLinkTopicCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var broker, topic string

	cmd := &cobra.Command{
		Use:   "link-topic DATASET_ID",
		Short: "Link a streaming dataset to a broker topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			detail, err := client.LinkDatasetToTopic(args[0], broker, topic)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Dataset linked to topic %s/%s", detail.BrokerName, detail.TopicName))
			return nil
		},
	}

	cmd.Flags().StringVar(&broker, "broker", "", "Broker name")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic name")
	cmd.MarkFlagRequired("broker")
	cmd.MarkFlagRequired("topic")

	return cmd
}

func newDatasetDeleteCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteDataset(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Dataset deleted: %s", args[0]))
			return nil
		},
	}
}
