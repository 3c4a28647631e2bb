package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host string
)

var rootCmd = &cobra.Command{
	Use:   "teaching-prom-cli",
	Short: "A CLI to interact with the teaching-prom server",
	Long: `A command-line interface for making requests to the endpoints of the
teaching-prom metrics demo and for pushing one-off job transitions to a
Prometheus Pushgateway.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:18000", "The host address of the server")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
