package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/internal/scoring"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const barWidth = 30

var counts = message.NewPrinter(language.English)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return eris.Errorf("unknown format %q (want table, json or yaml)", format)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// probabilityBar draws p as a fixed-width bar followed by the percentage.
func probabilityBar(p float64) string {
	p = math.Max(0, math.Min(1, p))
	filled := int(math.Round(p * barWidth))
	return fmt.Sprintf("[%s%s] %5.1f%%", strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), p*100)
}

func formatProbability(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *p*100)
}

// formatResult writes the verdict, the per-model breakdown and drift
// warnings for one scored transaction.
func formatResult(out io.Writer, r *model.ScoringResult) {
	tier := r.Severity()
	_, _ = fmt.Fprintf(out, "[%s] %s\n", tier, r.Verdict)
	if r.TransactionID != "" {
		_, _ = fmt.Fprintf(out, "Transaction: %s\n", r.TransactionID)
	}
	_, _ = fmt.Fprintf(out, "Fraud probability: %s\n\n", probabilityBar(r.EnsembleProbability))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tPROBABILITY\tCALL")
	_, _ = fmt.Fprintln(w, "-----\t-----------\t----")
	for _, s := range r.ModelScores() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, formatProbability(s.Probability), s.Label)
	}
	_ = w.Flush()

	if !r.HasDrift() {
		return
	}
	_, _ = fmt.Fprintf(out, "\nDrift warnings (%d):\n", len(r.DriftWarnings))
	for _, d := range r.DriftWarnings {
		_, _ = fmt.Fprintf(out, "  - %s\n", d)
	}
}

// formatCheck writes input warnings followed by the result.
func formatCheck(out io.Writer, c *scoring.Check) {
	for _, warn := range c.Warnings {
		_, _ = fmt.Fprintf(out, "Warning: %s\n", warn)
	}
	if c.Scored != nil {
		formatResult(out, c.Scored.Result)
	}
}

// formatFailure writes a status line, any detail, and the remediation.
func formatFailure(out io.Writer, err error) {
	if verr, ok := resilience.AsValidationError(err); ok {
		_, _ = fmt.Fprintln(out, "Invalid input:")
		for _, f := range verr.Fields {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", f.Field, f.Reason)
		}
	} else {
		_, _ = fmt.Fprintf(out, "Status: %s\n", statusLine(err))
		if be, ok := resilience.AsBackendError(err); ok && be.Reason != "" {
			_, _ = fmt.Fprintf(out, "Detail: %s\n", be.Reason)
		}
	}
	_, _ = fmt.Fprintln(out, resilience.Remediation(err))
}

func statusLine(err error) string {
	switch resilience.Kind(err) {
	case "timed_out":
		return "API timed out (may be waking up)"
	case "unreachable":
		return "API unreachable"
	case "backend_error":
		be, _ := resilience.AsBackendError(err)
		return fmt.Sprintf("API error %d", be.StatusCode)
	}
	return err.Error()
}

// formatCategories writes the resolved category list and its source.
func formatCategories(out io.Writer, cats model.Categories) {
	_, _ = fmt.Fprintf(out, "Categories (%d, %s):\n", len(cats.Names), cats.Source)
	for _, c := range cats.Names {
		_, _ = fmt.Fprintf(out, "  %s\n", c)
	}
	if cats.Source == model.CategorySourceFallback {
		_, _ = fmt.Fprintln(out, "Backend category list unavailable; showing built-in list.")
	}
}

func formatCount(n *int) string {
	if n == nil {
		return "N/A"
	}
	return counts.Sprintf("%d", *n)
}

// formatSnapshot writes model performance and prediction monitoring. A
// failed half is replaced by its status and remediation.
func formatSnapshot(out io.Writer, snap *monitoring.Snapshot) {
	_, _ = fmt.Fprintf(out, "API: %s\n", snap.APIURL)
	if snap.WakingUp() {
		_, _ = fmt.Fprintln(out, "Backend is waking up; some data may be missing.")
	}

	_, _ = fmt.Fprintln(out, "\nModel performance")
	if info := snap.ModelInfo; info != nil {
		formatModelInfo(out, info)
	} else {
		formatStatus(out, snap.ModelInfoStatus)
	}

	_, _ = fmt.Fprintln(out, "\nPrediction monitoring")
	if m := snap.Monitoring; m != nil {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "Total predictions:\t%s\n", formatCount(m.TotalPredictions))
		_, _ = fmt.Fprintf(w, "Fraud predictions:\t%s\n", formatCount(m.FraudPredictions))
		rate := "N/A"
		if m.FraudRate != nil {
			rate = fmt.Sprintf("%.1f%%", *m.FraudRate)
		}
		_, _ = fmt.Fprintf(w, "Fraud rate:\t%s\n", rate)
		_, _ = fmt.Fprintf(w, "Predictions with drift:\t%s\n", formatCount(m.PredictionsWithDrift))
		_ = w.Flush()
	} else {
		formatStatus(out, snap.MonitoringStatus)
	}
}

func formatStatus(out io.Writer, s monitoring.FetchStatus) {
	if s.Err == nil {
		_, _ = fmt.Fprintf(out, "  Status: %s\n", s.State)
		return
	}
	_, _ = fmt.Fprintf(out, "  Status: %s\n", statusLine(s.Err))
	_, _ = fmt.Fprintf(out, "  %s\n", s.Message)
}

func formatModelInfo(out io.Writer, info *model.ModelInfoSnapshot) {
	names := info.ModelNames()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(out, "  No model metrics reported.")
	} else {
		best := info.BestByColumn()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "MODEL\t%s\n", strings.Join(model.MetricColumns, "\t"))
		for _, name := range names {
			cells := []string{model.DisplayName(name)}
			for i, v := range info.Metrics[name].Values() {
				cell := fmt.Sprintf("%.4f", v)
				if best[i] == name {
					cell += " *"
				}
				cells = append(cells, cell)
			}
			_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(out, "  * best in column")
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Training samples:\t%s\n", formatCount(info.TrainingSamples))
	_, _ = fmt.Fprintf(w, "Test samples:\t%s\n", formatCount(info.TestSamples))
	_, _ = fmt.Fprintf(w, "Features:\t%d\n", len(info.FeatureColumns))
	if len(info.CategoricalColumns) > 0 {
		_, _ = fmt.Fprintf(w, "Categorical:\t%s\n", strings.Join(info.CategoricalColumns, ", "))
	}
	if len(info.NumericColumns) > 0 {
		_, _ = fmt.Fprintf(w, "Numeric:\t%s\n", strings.Join(info.NumericColumns, ", "))
	}
	_ = w.Flush()
}
