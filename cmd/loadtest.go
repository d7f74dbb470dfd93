package cmd

import (
	"fmt"
	"time"

	"course-portal/internal/client"
	"course-portal/internal/config"
	"course-portal/internal/loadtest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Fire concurrent registrations at a running server",
	Long: `Log in the demo students and submit concurrent registrations against the
registration API, then verify that no student holds two registrations for
the same course.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		ltCfg := loadtest.DefaultConfig()
		ltCfg.ConcurrentUsers, _ = cmd.Flags().GetInt("concurrent")
		ltCfg.RequestsPerUser, _ = cmd.Flags().GetInt("requests")
		if users, _ := cmd.Flags().GetStringSlice("students"); len(users) > 0 {
			ltCfg.Usernames = users
		}

		api := client.NewAPIClient(cfg.Client.BaseURL, cfg.Client.Timeout())
		if err := api.Health(cmd.Context()); err != nil {
			return fmt.Errorf("server not reachable at %s: %w", cfg.Client.BaseURL, err)
		}

		res, err := loadtest.NewRunner(api, ltCfg).Run(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle("Registration load test")
		t.AppendRows([]table.Row{
			{"Concurrent users", ltCfg.ConcurrentUsers},
			{"Total requests", res.TotalRequests},
			{"Succeeded", res.Succeeded},
		})
		for _, kind := range res.Kinds() {
			t.AppendRow(table.Row{string(kind), res.ByKind[kind]})
		}
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Avg latency", res.AvgLatency.Round(time.Microsecond)},
			{"Min latency", res.MinLatency.Round(time.Microsecond)},
			{"Max latency", res.MaxLatency.Round(time.Microsecond)},
			{"Throughput", fmt.Sprintf("%.1f req/s", res.ThroughputRPS)},
			{"Duplicate registrations", res.Duplicates},
		})
		t.SetStyle(table.StyleLight)
		t.Render()

		if res.Duplicates > 0 {
			return fmt.Errorf("found %d duplicate registration(s)", res.Duplicates)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().Int("concurrent", 10, "number of concurrent users")
	loadtestCmd.Flags().Int("requests", 5, "number of requests per user")
	loadtestCmd.Flags().StringSlice("students", nil, "usernames to log in (default the demo students)")
}
