package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aristath/portattr/internal/modules/performance"
)

// seriesFlags overrides request fields from the command line.
type seriesFlags struct {
	period   string
	riskFree float64
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", "", "sampling period (daily|weekly|monthly|yearly), overrides the request")
	cmd.Flags().Float64Var(&f.riskFree, "risk-free", 0, "annual risk-free rate, overrides the request")
}

func (f *seriesFlags) apply(cmd *cobra.Command, req *performance.SeriesRequest) {
	if cmd.Flags().Changed("period") {
		req.Period = f.period
	}
	if cmd.Flags().Changed("risk-free") {
		req.RiskFree = f.riskFree
	}
}

func newReturnsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "returns",
		Short: "Convert a NAV series into returns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req performance.SeriesRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			nav, err := req.NAVSeries()
			if err != nil {
				return err
			}

			svc := performance.NewService(opts.logger(cmd))
			resp := performance.ReturnsResponse{Returns: svc.Returns(nav).Observations()}
			return render(cmd.OutOrStdout(), opts.output, resp, func(w io.Writer) error {
				rows := make([][]string, len(resp.Returns))
				for i, o := range resp.Returns {
					rows[i] = []string{o.Date, formatValue(o.Value)}
				}
				return writeRows(w, []string{"date", "return"}, rows)
			})
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	flags := &seriesFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Metrics table of a strategy, with benchmark and active columns",
		Long: `Prints the 14 performance metrics of the strategy return series.
When the request carries a benchmark, the benchmark and active
(strategy minus benchmark) columns are added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req performance.SeriesRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			flags.apply(cmd, &req)

			period, err := req.SamplingPeriod()
			if err != nil {
				return err
			}
			ret, err := req.StrategyReturns()
			if err != nil {
				return err
			}
			benchmark, err := req.BenchmarkReturns()
			if err != nil {
				return err
			}

			table, err := performance.NewService(opts.logger(cmd)).Summary(ret, period, req.RiskFree, benchmark)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), opts.output, table)
		},
	}
	flags.register(cmd)
	return cmd
}

func newYearlyCmd(opts *options) *cobra.Command {
	flags := &seriesFlags{}
	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Metrics table per calendar year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req performance.SeriesRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			flags.apply(cmd, &req)

			period, err := req.SamplingPeriod()
			if err != nil {
				return err
			}
			ret, err := req.StrategyReturns()
			if err != nil {
				return err
			}

			table, err := performance.NewService(opts.logger(cmd)).Yearly(ret, period, req.RiskFree)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), opts.output, table)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDrawdownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drawdown",
		Short: "Daily drawdown path with the maximum and longest drawdown windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req performance.SeriesRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			ret, err := req.StrategyReturns()
			if err != nil {
				return err
			}

			resp := performance.NewService(opts.logger(cmd)).Drawdown(ret).Response()
			return render(cmd.OutOrStdout(), opts.output, resp, func(w io.Writer) error {
				summary := [][]string{
					{"max_drawdown", formatValue(resp.MaxDrawdown)},
					{"max_drawdown_start", resp.MaxStart},
					{"max_drawdown_end", resp.MaxEnd},
					{"longest_drawdown_start", resp.LongestStart},
					{"longest_drawdown_end", resp.LongestEnd},
				}
				if err := writeRows(w, []string{"metric", "value"}, summary); err != nil {
					return err
				}
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
				rows := make([][]string, len(resp.Daily))
				for i, o := range resp.Daily {
					rows[i] = []string{o.Date, formatValue(o.Value)}
				}
				return writeRows(w, []string{"date", "drawdown"}, rows)
			})
		},
	}
}

func renderTable(w io.Writer, format string, table *performance.Table) error {
	return render(w, format, table, func(w io.Writer) error {
		header := append([]string{"metric"}, table.Columns...)
		rows := make([][]string, len(table.Index))
		for i, name := range table.Index {
			rows[i] = append([]string{name}, table.Data[i]...)
		}
		return writeRows(w, header, rows)
	})
}
