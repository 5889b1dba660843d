package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/mapension/retirement-calculator/internal/api"
	"github.com/mapension/retirement-calculator/internal/calculation"
	"github.com/mapension/retirement-calculator/internal/config"
	"github.com/mapension/retirement-calculator/internal/logging"
	"github.com/mapension/retirement-calculator/internal/output"
	money "github.com/mapension/retirement-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mapension",
		Short:         "Massachusetts Retirement Calculator CLI",
		Long:          "Pension, Social Security, tax and Medicare calculator for Massachusetts public employees",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(claimingCmd())
	rootCmd.AddCommand(exampleCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// cliLogger builds the engine logger from the persistent log flags.
func cliLogger(cmd *cobra.Command) calculation.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		level = "debug"
	}
	return logging.NewPrintf(logging.New(level, format, cmd.ErrOrStderr()))
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate retirement scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(cliLogger(cmd))
			results, err := engine.RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			if outputDir != "" {
				path, err := output.GenerateReport(results, format, outputDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			return output.Render(cmd.OutOrStdout(), results, format)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, summary, json, csv, projection-csv)")
	cmd.Flags().StringP("output-dir", "o", "", "Write a timestamped report file to this directory instead of stdout")
	cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenarios)\n", args[0], len(cfg.Scenarios))
			return nil
		},
	}
}

func claimingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claiming",
		Short: "Find the Social Security claiming age with the highest lifetime benefit",
		RunE: func(cmd *cobra.Command, args []string) error {
			birthYear, _ := cmd.Flags().GetInt("birth-year")
			lifeExpectancy, _ := cmd.Flags().GetInt("life-expectancy")
			aimeFlag, _ := cmd.Flags().GetString("aime")
			currentAgeFlag, _ := cmd.Flags().GetString("current-age")

			aime, err := decimal.NewFromString(aimeFlag)
			if err != nil {
				return fmt.Errorf("invalid --aime %q: %w", aimeFlag, err)
			}
			currentAge, err := decimal.NewFromString(currentAgeFlag)
			if err != nil {
				return fmt.Errorf("invalid --current-age %q: %w", currentAgeFlag, err)
			}

			analysis, err := calculation.OptimalClaimingAge(birthYear, lifeExpectancy, aime, currentAge)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s %15s %18s\n", "AGE", "MONTHLY", "LIFETIME")
			for _, c := range analysis.Candidates {
				marker := ""
				if c.Age == analysis.RecommendedAge {
					marker = "  <- recommended"
				}
				fmt.Fprintf(out, "%-6d %15s %18s%s\n", c.Age,
					money.NewMoneyFromDecimal(c.MonthlyBenefit).Format(),
					money.NewMoneyFromDecimal(c.TotalLifetimeBenefit).Format(), marker)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, analysis.Reasoning)
			return nil
		},
	}
	cmd.Flags().Int("birth-year", 0, "Birth year (required)")
	cmd.Flags().String("aime", "", "Average indexed monthly earnings (required)")
	cmd.Flags().Int("life-expectancy", 85, "Life expectancy in years")
	cmd.Flags().String("current-age", "0", "Current age; earlier claiming ages are skipped")
	_ = cmd.MarkFlagRequired("birth-year")
	_ = cmd.MarkFlagRequired("aime")
	return cmd
}

func exampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			example := config.NewInputParser().CreateExampleConfiguration()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := output.SaveConfiguration(example, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", path)
				return nil
			}
			data, err := config.Marshal(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the example to a file instead of stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if !cmd.Flags().Changed("addr") {
				if port := os.Getenv("PORT"); port != "" {
					addr = ":" + port
				}
			}

			logger := cliLogger(cmd)
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			server := api.NewServer(engine, api.WithLogger(logger))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address (PORT overrides the default)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mapension %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

