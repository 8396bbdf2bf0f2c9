package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/portattr/internal/modules/risk"
)

func newDecomposeCmd(opts *options) *cobra.Command {
	var marginal bool
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose the ex-ante risk of one portfolio date",
		Long: `Splits portfolio risk into systematic, specific and total contributions per
security. With --marginal the marginal contributions to risk are printed
instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req risk.DecomposeRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			if cmd.Flags().Changed("marginal") {
				contribution := !marginal
				req.ReturnContribution = &contribution
			}

			in, err := req.Input(time.Time{})
			if err != nil {
				return err
			}
			svc := risk.NewService(1, opts.logger(cmd))
			d, err := svc.Decompose(in.Holding, in.Exposure, in.FactorCov, in.SpecificRisk, req.Contribution())
			if err != nil {
				return err
			}

			resp := d.Response()
			return render(cmd.OutOrStdout(), opts.output, resp, func(w io.Writer) error {
				return writeDecomposition(w, resp)
			})
		},
	}
	cmd.Flags().BoolVar(&marginal, "marginal", false, "print marginal contributions to risk")
	return cmd
}

func newDecomposeBatchCmd(opts *options) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "decompose-batch",
		Short: "Decompose the ex-ante risk of several portfolio dates in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req risk.BatchRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			inputs, err := req.Inputs()
			if err != nil {
				return err
			}

			svc := risk.NewService(workers, opts.logger(cmd))
			results, err := svc.DecomposeBatch(cmd.Context(), inputs, req.Contribution())
			if err != nil {
				return err
			}

			resp := risk.BatchResponse(results)
			return render(cmd.OutOrStdout(), opts.output, resp, func(w io.Writer) error {
				for i, r := range resp {
					if i > 0 {
						if _, err := io.WriteString(w, "\n"); err != nil {
							return err
						}
					}
					if _, err := fmt.Fprintf(w, "date: %s\n", r.Date); err != nil {
						return err
					}
					if err := writeDecomposition(w, r.DecompositionResponse); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: number of CPUs)")
	return cmd
}

func newExposureCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exposure",
		Short: "Holding-weighted factor exposure of a portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req risk.ModelRequest
			if err := opts.readRequest(cmd, &req); err != nil {
				return err
			}
			holding, exposure, err := req.ExposureInput()
			if err != nil {
				return err
			}

			out, err := risk.NewService(1, opts.logger(cmd)).Exposure(holding, exposure)
			if err != nil {
				return err
			}

			resp := risk.ExposureResponse(out)
			return render(cmd.OutOrStdout(), opts.output, resp, func(w io.Writer) error {
				rows := make([][]string, len(resp))
				for i, e := range resp {
					rows[i] = []string{e.Factor, formatValue(e.Value)}
				}
				return writeRows(w, []string{"factor", "exposure"}, rows)
			})
		},
	}
}

func writeDecomposition(w io.Writer, d risk.DecompositionResponse) error {
	if _, err := fmt.Fprintf(w, "measure: %s\nsystematic_std: %s\nspecific_std: %s\ntotal_std: %s\n\n",
		d.Measure, formatValue(d.SystematicStd), formatValue(d.SpecificStd), formatValue(d.TotalStd)); err != nil {
		return err
	}
	rows := make([][]string, len(d.Contributions))
	for i, c := range d.Contributions {
		rows[i] = []string{c.Security, formatValue(c.Systematic), formatValue(c.Specific), formatValue(c.Total)}
	}
	return writeRows(w, []string{"security", "systematic_risk", "specific_risk", "total_risk"}, rows)
}
