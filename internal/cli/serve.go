package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/serving"
)

// NewServeCmd создаёт группу команд для управления инференс-сервисами.
func NewServeCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Manage inference services",
	}

	cmd.AddCommand(
		newServeDeployCmd(orchFn, outputFn),
		newServeURLCmd(orchFn, outputFn),
		newServeDeleteCmd(orchFn, outputFn),
	)

	return cmd
}

// servingService строит serving.Service без логирования в терминал.
func servingService(orch orchestrator.Client) *serving.Service {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return serving.NewService(orch, quiet)
}

func newServeDeployCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "deploy MODEL_URI",
		Short: "Deploy a model as an inference service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			svc := servingService(orchFn())

			deployed, err := svc.Serve(cmd.Context(), name, args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Inference service deployed: %s", deployed))
			out.Print(
				[]string{"NAME", "MODEL_URI"},
				[][]string{{deployed, args[0]}},
				map[string]string{"name": deployed, "model_uri": args[0]},
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Service name (generated if empty)")

	return cmd
}

func newServeURLCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "url NAME",
		Short: "Wait for readiness and print the service URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			svc := servingService(orchFn())

			url, err := svc.URL(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"NAME", "URL"},
				[][]string{{args[0], url}},
				map[string]string{"name": args[0], "url": url},
			)
			return nil
		},
	}
}

func newServeDeleteCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an inference service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			svc := servingService(orchFn())

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Inference service deleted: %s", args[0]))
			return nil
		},
	}
}
