package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/pushgateway"
	"github.com/spf13/cobra"
)

var (
	jobsLimit   int
	gatewayURL  string
	pushJob     string
	pushStatus  string
	pushExecID  string
	pushTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(welcomeCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(pushCmd)

	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Number of job runs to list")

	pushCmd.Flags().StringVar(&gatewayURL, "gateway", config.DefaultPushGatewayURL, "The Pushgateway URL")
	pushCmd.Flags().StringVar(&pushJob, "job", "", "The job name to push for")
	pushCmd.Flags().StringVar(&pushStatus, "status", "start", "The job status to record")
	pushCmd.Flags().StringVar(&pushExecID, "exec-id", "", "The exec_id grouping key (generated when empty)")
	pushCmd.Flags().DurationVar(&pushTimeout, "timeout", 10*time.Second, "Timeout for the push")
	_ = pushCmd.MarkFlagRequired("job")
}

var welcomeCmd = &cobra.Command{
	Use:   "welcome",
	Short: "Get the welcome message",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/")
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Scrape the simulated metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/service/metrics")
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recent simulated job runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/service/jobs?limit="+strconv.Itoa(jobsLimit))
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a single job status transition to the Pushgateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		execID := pushExecID
		if execID == "" {
			execID = uuid.NewString()
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), pushTimeout)
		defer cancel()

		client := pushgateway.New(gatewayURL)
		grouping := map[string]string{"exec_id": execID}
		if err := client.PushJobTransition(ctx, pushJob, pushStatus, grouping); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s=%s (exec_id=%s) to %s\n", pushJob, pushStatus, execID, gatewayURL)
		return nil
	},
}

func performGetRequest(out io.Writer, endpoint string) error {
	url := host + endpoint
	fmt.Fprintf(out, "Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(body))

	return nil
}
