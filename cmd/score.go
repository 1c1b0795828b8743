package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one transaction",
	Long:  "Validates the transaction fields, sends them to POST /predict once, and prints the verdict with the per-model breakdown.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")

		in := formInputFromFlags(cmd.Flags())
		cmd.SilenceUsage = true

		checker := scoring.NewChecker(newAPI(), cfg)
		return runScore(cmd.Context(), checker, in, format, raw, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// scoreOutput is the --format json|yaml shape of a check.
type scoreOutput struct {
	Features  model.TransactionFeatures `json:"features" yaml:"features"`
	Warnings  []string                  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Result    *model.ScoringResult      `json:"result" yaml:"result"`
	Severity  model.SeverityTier        `json:"severity" yaml:"severity"`
	Models    []model.ModelScore        `json:"models" yaml:"models"`
	RequestID string                    `json:"request_id" yaml:"request_id"`
	LatencyMS int64                     `json:"latency_ms" yaml:"latency_ms"`
}

func runScore(ctx context.Context, checker *scoring.Checker, in model.FormInput, format string, raw bool, out, errOut io.Writer) error {
	known := checker.Categories.Resolve(ctx)

	check, err := checker.Check(ctx, in, known)
	if err != nil {
		formatFailure(errOut, err)
		return err
	}

	switch {
	case raw:
		_, _ = fmt.Fprintln(out, string(check.Scored.Raw))
		return nil
	case format == formatTable:
		formatCheck(out, check)
		return nil
	}

	r := check.Scored.Result
	for _, warn := range check.Warnings {
		_, _ = fmt.Fprintf(errOut, "Warning: %s\n", warn)
	}
	return encode(out, format, scoreOutput{
		Features:  check.Features,
		Warnings:  check.Warnings,
		Result:    r,
		Severity:  r.Severity(),
		Models:    r.ModelScores(),
		RequestID: check.Scored.RequestID,
		LatencyMS: check.Scored.Latency.Milliseconds(),
	})
}

// formInputFromFlags reads the form fields. Flag defaults are the form
// defaults, so unset flags behave like an untouched form.
func formInputFromFlags(fs *pflag.FlagSet) model.FormInput {
	var in model.FormInput
	in.Category, _ = fs.GetString("category")
	in.Amount, _ = fs.GetFloat64("amount")
	in.Age, _ = fs.GetInt("age")
	in.DaysUntilExpiry, _ = fs.GetInt("days-until-expiry")
	in.LocDelta, _ = fs.GetFloat64("loc-delta")
	in.LocDeltaMavg, _ = fs.GetFloat64("loc-delta-mavg")
	in.TransVolumeMavg, _ = fs.GetFloat64("volume-mavg")
	in.TransVolumeMstd, _ = fs.GetFloat64("volume-mstd")
	in.TransFreq, _ = fs.GetInt("trans-freq")
	return in
}

func init() {
	d := model.DefaultFormInput()
	f := scoreCmd.Flags()
	f.String("category", d.Category, "merchant category")
	f.Float64("amount", d.Amount, "transaction amount in USD")
	f.Int("age", d.Age, "cardholder age at transaction")
	f.Int("days-until-expiry", d.DaysUntilExpiry, "days until the card expires")
	f.Float64("loc-delta", d.LocDelta, "distance from the previous transaction location")
	f.Float64("loc-delta-mavg", d.LocDeltaMavg, "moving average of location deltas")
	f.Float64("volume-mavg", d.TransVolumeMavg, "moving average of transaction volume")
	f.Float64("volume-mstd", d.TransVolumeMstd, "moving std dev of transaction volume")
	f.Int("trans-freq", d.TransFreq, "transactions in the recent window")
	f.String("format", formatTable, "output format: table, json or yaml")
	f.Bool("raw", false, "print the backend response body verbatim")
	rootCmd.AddCommand(scoreCmd)
}

