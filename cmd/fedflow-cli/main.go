// fedflow CLI — инструмент командной строки для работы с реестром
// метаданных и оркестратором федеративных пайплайнов.
//
// Использование:
//
//	fedflow [--api-url URL] [--orchestrator-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	dataset   Управление датасетами
//	model     Управление моделями
//	broker    Управление брокерами сообщений
//	schedule  Управление расписаниями
//	run       Управление запусками
//	serve     Управление инференс-сервисами
//	artifact  Управление артефактами в объектном хранилище
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/fedflow/internal/cli"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/registry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var orchURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "fedflow",
		Short:         "fedflow CLI — federated pipeline tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Registry API URL")
	rootCmd.PersistentFlags().StringVar(&orchURL, "orchestrator-url", "http://localhost:8090", "Orchestrator URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *registry.Client { return registry.NewClient(apiURL) }
	orchFn := func() orchestrator.Client { return orchestrator.NewHTTPClient(orchURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewDatasetCmd(clientFn, outputFn),
		cli.NewModelCmd(clientFn, outputFn),
		cli.NewBrokerCmd(clientFn, outputFn),
		cli.NewScheduleCmd(clientFn, outputFn),
		cli.NewRunCmd(orchFn, outputFn),
		cli.NewServeCmd(orchFn, outputFn),
		cli.NewArtifactCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
