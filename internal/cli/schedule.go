package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/registry"
)

// NewScheduleCmd создаёт группу команд для управления расписаниями.
func NewScheduleCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage pipeline schedules",
	}

	cmd.AddCommand(
		newScheduleListCmd(clientFn, outputFn),
		newScheduleCreateCmd(clientFn, outputFn),
		newScheduleShowCmd(clientFn, outputFn),
		newScheduleDeleteCmd(clientFn, outputFn),
		newScheduleEnableCmd(clientFn, outputFn),
		newScheduleDisableCmd(clientFn, outputFn),
	)

	return cmd
}

func newScheduleListCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var pipelineName string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			schedules, err := client.ListSchedules(registry.ListSchedulesOpts{
				PipelineName: pipelineName,
				Limit:        limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "PIPELINE", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"}
			rows := make([][]string, len(schedules))
			for i, s := range schedules {
				rows[i] = []string{
					s.ID, s.Name, s.PipelineName, s.CronExpr,
					strconv.Itoa(s.IntervalSec), strconv.FormatBool(s.Enabled), s.NextDueAt,
				}
			}

			out.Print(headers, rows, schedules)
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineName, "pipeline", "", "Filter by pipeline name")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newScheduleCreateCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var name, graphFile, cronExpr, timezone string
	var intervalSec int
	var disabled bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schedule from a composed graph file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(graphFile)
			if err != nil {
				return fmt.Errorf("read graph file: %w", err)
			}

			req := registry.CreateScheduleRequest{
				Name:        name,
				CronExpr:    cronExpr,
				IntervalSec: intervalSec,
				Timezone:    timezone,
				Enabled:     !disabled,
			}
			if err := json.Unmarshal(data, &req.Graph); err != nil {
				return fmt.Errorf("parse graph file: %w", err)
			}

			schedule, err := client.CreateSchedule(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Schedule created: %s", schedule.ID))
			out.Print(
				[]string{"ID", "PIPELINE", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"},
				[][]string{{
					schedule.ID, schedule.PipelineName, schedule.CronExpr,
					strconv.Itoa(schedule.IntervalSec), strconv.FormatBool(schedule.Enabled), schedule.NextDueAt,
				}},
				schedule,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Schedule name")
	cmd.Flags().StringVar(&graphFile, "graph", "", "Path to a JSON file with the composed graph")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression")
	cmd.Flags().IntVar(&intervalSec, "interval", 0, "Interval between runs in seconds")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "Timezone for cron evaluation")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the schedule disabled")
	cmd.MarkFlagRequired("graph")

	return cmd
}

func newScheduleShowCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show schedule details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			s, err := client.GetSchedule(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "PIPELINE", "CRON", "INTERVAL", "TIMEZONE", "ENABLED", "NEXT_DUE", "LAST_RUN"},
				[][]string{{
					s.ID, s.Name, s.PipelineName, s.CronExpr, strconv.Itoa(s.IntervalSec),
					s.Timezone, strconv.FormatBool(s.Enabled), s.NextDueAt, s.LastRunAt,
				}},
				s,
			)
			return nil
		},
	}
}

func newScheduleDeleteCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteSchedule(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Schedule deleted: %s", args[0]))
			return nil
		},
	}
}

func newScheduleEnableCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "enable ID",
		Short: "Enable a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			s, err := client.EnableSchedule(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Schedule enabled: %s", s.ID))
			return nil
		},
	}
}

func newScheduleDisableCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "disable ID",
		Short: "Disable a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			s, err := client.DisableSchedule(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Schedule disabled: %s", s.ID))
			return nil
		},
	}
}
