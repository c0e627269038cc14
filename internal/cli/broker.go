package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/registry"
)

// NewBrokerCmd создаёт группу команд для управления брокерами сообщений.
func NewBrokerCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "broker",
		Short: "Manage message brokers",
	}

	cmd.AddCommand(
		newBrokerRegisterCmd(clientFn, outputFn),
		newBrokerListCmd(clientFn, outputFn),
		newBrokerTopicCmd(clientFn, outputFn),
	)

	return cmd
}

func newBrokerRegisterCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "register NAME",
		Short: "Register a message broker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			b, err := client.RegisterBroker(args[0], host, port)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Broker registered: %s", b.ID))
			out.Print(
				[]string{"ID", "NAME", "HOST", "PORT", "CREATED"},
				[][]string{{b.ID, b.Name, b.Host, strconv.Itoa(b.Port), b.CreatedAt}},
				b,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Broker host")
	cmd.Flags().IntVar(&port, "port", 5672, "Broker port")
	cmd.MarkFlagRequired("host")

	return cmd
}

func newBrokerListCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List brokers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			brokers, err := client.ListBrokers()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "HOST", "PORT", "CREATED"}
			rows := make([][]string, len(brokers))
			for i, b := range brokers {
				rows[i] = []string{b.ID, b.Name, b.Host, strconv.Itoa(b.Port), b.CreatedAt}
			}

			out.Print(headers, rows, brokers)
			return nil
		},
	}
}

func newBrokerTopicCmd(clientFn func() *registry.Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "topic BROKER_NAME TOPIC_NAME",
		Short: "Register a topic (idempotent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			t, err := client.RegisterTopic(args[0], args[1])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Topic registered: %s", t.ID))
			out.Print(
				[]string{"ID", "BROKER_ID", "NAME", "CREATED"},
				[][]string{{t.ID, t.BrokerID, t.Name, t.CreatedAt}},
				t,
			)
			return nil
		},
	}
}
