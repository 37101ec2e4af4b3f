package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/budgetwise/budgetwise/internal/app"
	"github.com/budgetwise/budgetwise/internal/config"
	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/planner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLIApp is the budgetwise command line.
type CLIApp struct {
	rootCmd *cobra.Command
	clock   utils.Clock
}

func NewCLIApp() *CLIApp {
	cli := &CLIApp{clock: utils.SystemClock{}}

	rootCmd := &cobra.Command{
		Use:          "budgetwise",
		Short:        "Plan expenses against a budget",
		SilenceUsage: true,
		RunE:         cli.runServe,
	}
	rootCmd.PersistentFlags().StringP("config-file", "C", config.DefaultPath, "Path to the YAML configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planner HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE:  cli.runServe,
	}

	summarizeCmd := &cobra.Command{
		Use:   "summarize <plan.yaml>",
		Short: "Print totals and breakdowns for a plan file",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.runSummarize,
	}
	summarizeCmd.Flags().Bool("csv", false, "Write the summary as CSV")

	rootCmd.AddCommand(serveCmd, summarizeCmd)
	cli.rootCmd = rootCmd
	return cli
}

// Execute runs the CLI application.
func (cli *CLIApp) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLIApp) loadConfig(cmd *cobra.Command) (config.Application, error) {
	path, _ := cmd.Flags().GetString("config-file")
	return config.Load(path)
}

func (cli *CLIApp) runServe(cmd *cobra.Command, args []string) error {
	cfg, err := cli.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.NewApplication(cfg).Run(ctx)
}

func (cli *CLIApp) runSummarize(cmd *cobra.Command, args []string) error {
	asCsv, _ := cmd.Flags().GetBool("csv")

	cfg, err := cli.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	plan, err := LoadPlanFile(args[0])
	if err != nil {
		return err
	}
	r, err := plan.Build(cfg.Budget.Settings(), cli.clock)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d items from %s", r.Len(), args[0])

	summary, err := planner.BuildSummary(r.Settings(), r.Items())
	if err != nil {
		return err
	}

	var renderer planner.SummaryRenderer = NewTerminalSummaryRenderer()
	if asCsv {
		renderer = planner.NewCsvSummaryRenderer()
	}
	out, err := renderer.RenderSummary(summary)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
