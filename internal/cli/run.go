package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/poller"
)

// NewRunCmd создаёт группу команд для управления запусками.
func NewRunCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage pipeline runs",
	}

	cmd.AddCommand(
		newRunStatusCmd(orchFn, outputFn),
		newRunWaitCmd(orchFn, outputFn),
		newRunDeleteCmd(orchFn, outputFn),
	)

	return cmd
}

func newRunStatusCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status RUN_ID",
		Short: "Show run status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := orchFn()
			out := outputFn()

			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			status, err := orch.GetRunStatus(cmd.Context(), runID)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"RUN_ID", "STATUS"},
				[][]string{{runID.String(), string(status)}},
				map[string]string{"run_id": runID.String(), "status": string(status)},
			)
			return nil
		},
	}
}

func newRunWaitCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "wait RUN_ID",
		Short: "Wait until a run reaches a terminal status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := orchFn()
			out := outputFn()

			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			// Промежуточные статусы CLI не логирует
			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			p := poller.NewRunPoller(orch, quiet, interval)
			p.OnStatus = func(status domain.RunStatus) {
				out.Success(fmt.Sprintf("Run %s: %s", runID, status))
			}

			status, err := p.WaitUntilTerminal(cmd.Context(), runID)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"RUN_ID", "STATUS"},
				[][]string{{runID.String(), string(status)}},
				map[string]string{"run_id": runID.String(), "status": string(status)},
			)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Polling interval")

	return cmd
}

func newRunDeleteCmd(orchFn func() orchestrator.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := orchFn()
			out := outputFn()

			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			if err := orch.DeleteRun(cmd.Context(), runID); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Run deleted: %s", runID))
			return nil
		},
	}
}
