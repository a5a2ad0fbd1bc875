package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"goviz/adapters/ingest"
	"goviz/domain/chart"
	"goviz/internal/report"
	"goviz/internal/summary"
	"goviz/internal/testkit"
	"goviz/internal/viz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goviz-cli",
		Short:         "Summarize tabular files and build chart specifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newChartCmd(),
		newDashboardCmd(),
		newSampleCmd(),
	)
	return rootCmd
}

func newSummaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print the per-column summary of a CSV, JSON or XLSX file",
		Long: `Print row and column counts, inferred types, missing counts and
descriptive statistics for every column.

Example: goviz-cli summary grades.csv --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.ReadFile(args[0])
			if err != nil {
				return err
			}
			result := summary.Summarize(t)

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), result)
			case "markdown":
				_, err := cmd.OutOrStdout().Write(report.Markdown(args[0], result))
				return err
			case "html":
				_, err := cmd.OutOrStdout().Write(report.HTML(args[0], result))
				return err
			default:
				return fmt.Errorf("unknown format %q (use json, markdown or html)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|markdown|html")
	return cmd
}

func newChartCmd() *cobra.Command {
	var req chart.Request
	var kind, agg string

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Build a chart specification from a file",
		Long: `Build the renderer-agnostic chart specification for one chart request.
A request that does not fit the data yields the error variant of the chart spec.

Example: goviz-cli chart grades.csv --kind bar --x subject --y grade --agg mean`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.ReadFile(args[0])
			if err != nil {
				return err
			}
			req.Kind = chart.Kind(kind)
			req.AggFunc = chart.AggFunc(agg)
			return writeJSON(cmd.OutOrStdout(), viz.NewBuilder().Build(t, req))
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(chart.KindBar), "Chart kind: bar|line|scatter|histogram|box|heatmap|pie")
	cmd.Flags().StringVar(&req.XColumn, "x", "", "X axis column")
	cmd.Flags().StringVar(&req.YColumn, "y", "", "Y axis column")
	cmd.Flags().StringVar(&req.ColorColumn, "color", "", "Color grouping column (heatmap values)")
	cmd.Flags().StringVar(&agg, "agg", string(chart.AggMean), "Aggregation: mean|sum|count|min|max")
	cmd.Flags().StringVar(&req.Title, "title", "", "Chart title")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard [file]",
		Short: "Build the overview dashboard panels for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.ReadFile(args[0])
			if err != nil {
				return err
			}
			dashboard, err := viz.NewBuilder().Dashboard(t)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dashboard)
		},
	}
}

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultStudentConfig()
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write generated student grades as CSV",
		Long: `Write a reproducible student grades table, one row per student and
subject. The same seed always produces the same file.

Example: goviz-cli sample -n 50 --seed 42 -o students.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students := testkit.NewStudentGenerator(config).Students()
			if output == "" || output == "-" {
				return testkit.WriteCSV(cmd.OutOrStdout(), students)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := testkit.WriteCSV(f, students); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d students to %s\n", len(students), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&config.StudentCount, "students", "n", config.StudentCount, "Number of students")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic output")
	cmd.Flags().IntVar(&config.ReferenceYear, "year", time.Now().Year(), "Reference year entry years are counted back from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
