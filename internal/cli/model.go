package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/registry"
)

// NewModelCmd создаёт группу команд для управления моделями.
func NewModelCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage models",
	}

	cmd.AddCommand(
		newModelSaveCmd(clientFn, outputFn),
		newModelListCmd(clientFn, outputFn),
		newModelShowCmd(clientFn, outputFn),
		newModelLinkCmd(clientFn, outputFn),
		newModelDatasetsCmd(clientFn, outputFn),
	)

	return cmd
}

func newModelSaveCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var version, description, uri, runID string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a model to the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			m, err := client.SaveModel(registry.SaveModelRequest{
				Name:        args[0],
				Version:     version,
				Description: description,
				URI:         uri,
				RunID:       runID,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Model saved: %s", m.ID))
			out.Print(
				[]string{"ID", "NAME", "VERSION", "URI", "CREATED"},
				[][]string{{m.ID, m.Name, m.Version, m.URI, m.CreatedAt}},
				m,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Model version")
	cmd.Flags().StringVar(&description, "description", "", "Model description")
	cmd.Flags().StringVar(&uri, "uri", "", "Artifact URI in object storage")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run that produced the model")

	return cmd
}

func newModelListCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			models, err := client.ListModels()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "VERSION", "URI", "CREATED"}
			rows := make([][]string, len(models))
			for i, m := range models {
				rows[i] = []string{m.ID, m.Name, m.Version, m.URI, m.CreatedAt}
			}

			out.Print(headers, rows, models)
			return nil
		},
	}
}

func newModelShowCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show model details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			m, err := client.GetModel(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "VERSION", "DESCRIPTION", "URI", "RUN_ID", "CREATED"},
				[][]string{{m.ID, m.Name, m.Version, m.Description, m.URI, m.RunID, m.CreatedAt}},
				m,
			)
			return nil
		},
	}
}

func newModelLinkCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var datasetID string

	cmd := &cobra.Command{
		Use:   "link MODEL_ID",
		Short: "Link a model to the dataset it was trained on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			link, err := client.LinkModelToDataset(args[0], datasetID)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Model %s linked to dataset %s", link.ModelID, link.DatasetID))
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "", "Dataset ID")
	cmd.MarkFlagRequired("dataset-id")

	return cmd
}

func newModelDatasetsCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets MODEL_ID",
		Short: "List datasets linked to a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			links, err := client.ListModelDatasets(args[0])
			if err != nil {
				return err
			}

			headers := []string{"MODEL_ID", "DATASET_ID", "LINKED"}
			rows := make([][]string, len(links))
			for i, l := range links {
				rows[i] = []string{l.ModelID, l.DatasetID, l.LinkedAt}
			}

			out.Print(headers, rows, links)
			return nil
		},
	}
}
