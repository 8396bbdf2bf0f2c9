// Package commands implements the portattr command line tool. Every command
// reads the same request body the HTTP service accepts, from a file or stdin.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aristath/portattr/pkg/logger"
)

// options holds the global flags.
type options struct {
	input    string
	output   string
	logLevel string
}

// NewRootCmd builds the portattr command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "portattr",
		Short: "Portfolio performance and factor risk attribution",
		Long: `portattr computes performance statistics of return series and decomposes
the ex-ante risk of factor-model portfolios.

Requests are the JSON (or YAML) bodies accepted by the HTTP service.

Examples:
  portattr summary -i returns.json
  portattr drawdown < returns.json
  portattr decompose -i model.yaml -o yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (expected text, json or yaml)", opts.output)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "request file (- for stdin)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "output format (text|json|yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newReturnsCmd(opts),
		newSummaryCmd(opts),
		newYearlyCmd(opts),
		newDrawdownCmd(opts),
		newDecomposeCmd(opts),
		newDecomposeBatchCmd(opts),
		newExposureCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// logger returns a console logger writing to the command's stderr.
func (o *options) logger(cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  o.logLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
}

// readRequest decodes the request into v. Files ending in .yaml or .yml are
// read as YAML, everything else as JSON.
func (o *options) readRequest(cmd *cobra.Command, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if o.input == "" || o.input == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(o.input)
	}
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(o.input)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid YAML request: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("invalid JSON request: %w", err)
		}
	}
	return nil
}
