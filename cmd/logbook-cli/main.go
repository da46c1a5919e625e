// Logbook CLI — отправка сообщений и просмотр счётчиков через HTTP API.
//
// Использование:
//
//	logbook [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	send    Отправить сообщение (--count N раз)
//	counts  Показать message_count_total по содержимому
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Logbook/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "logbook",
		Short:         "Logbook CLI — send messages and inspect counters",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewSendCmd(clientFn, outputFn),
		cli.NewCountsCmd(clientFn, outputFn),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.NewOutput(jsonOutput).Error(err.Error())
		os.Exit(1)
	}
}
