// Package report exports monitoring snapshots to spreadsheet workbooks.
package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
)

// Sheet names written by WriteXLSX.
const (
	SheetPerformance = "Model Performance"
	SheetDataset     = "Dataset"
	SheetMonitoring  = "Monitoring"
)

// WriteXLSX saves snap as a workbook at path. Halves of the snapshot that
// failed to load get a single status row instead of data.
func WriteXLSX(path string, snap *monitoring.Snapshot) error {
	f := xlsx.NewFile()

	perf, err := f.AddSheet(SheetPerformance)
	if err != nil {
		return eris.Wrap(err, "xlsx: add performance sheet")
	}
	dataset, err := f.AddSheet(SheetDataset)
	if err != nil {
		return eris.Wrap(err, "xlsx: add dataset sheet")
	}
	mon, err := f.AddSheet(SheetMonitoring)
	if err != nil {
		return eris.Wrap(err, "xlsx: add monitoring sheet")
	}

	if info := snap.ModelInfo; info != nil {
		writePerformance(perf, info)
		writeDataset(dataset, info)
	} else {
		writeStatus(perf, snap.ModelInfoStatus)
		writeStatus(dataset, snap.ModelInfoStatus)
	}

	if m := snap.Monitoring; m != nil {
		writeMonitoring(mon, m)
	} else {
		writeStatus(mon, snap.MonitoringStatus)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) *xlsx.Row {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
	return row
}

func writePerformance(sheet *xlsx.Sheet, info *model.ModelInfoSnapshot) {
	addStrings(sheet, append([]string{"Model"}, model.MetricColumns...)...)
	for _, name := range info.ModelNames() {
		row := addStrings(sheet, model.DisplayName(name))
		for _, v := range info.Metrics[name].Values() {
			row.AddCell().SetFloat(v)
		}
	}
}

func writeDataset(sheet *xlsx.Sheet, info *model.ModelInfoSnapshot) {
	addStrings(sheet, "Field", "Value")
	addCount(sheet, "Training samples", info.TrainingSamples)
	addCount(sheet, "Test samples", info.TestSamples)
	addCount(sheet, "Features", intPtr(len(info.FeatureColumns)))
	for _, c := range info.CategoricalColumns {
		addStrings(sheet, "Categorical column", c)
	}
	for _, c := range info.NumericColumns {
		addStrings(sheet, "Numeric column", c)
	}
}

func writeMonitoring(sheet *xlsx.Sheet, m *model.MonitoringSummary) {
	addStrings(sheet, "Metric", "Value")
	addCount(sheet, "Total predictions", m.TotalPredictions)
	addCount(sheet, "Fraud predictions", m.FraudPredictions)
	row := addStrings(sheet, "Fraud rate (%)")
	if m.FraudRate != nil {
		row.AddCell().SetFloat(*m.FraudRate)
	} else {
		row.AddCell().SetString("N/A")
	}
	addCount(sheet, "Predictions with drift", m.PredictionsWithDrift)
}

func writeStatus(sheet *xlsx.Sheet, s monitoring.FetchStatus) {
	addStrings(sheet, "Status", string(s.State))
	if s.Message != "" {
		addStrings(sheet, "Remediation", s.Message)
	}
}

func addCount(sheet *xlsx.Sheet, label string, n *int) {
	row := addStrings(sheet, label)
	if n == nil {
		row.AddCell().SetString("N/A")
		return
	}
	row.AddCell().SetInt(*n)
}

func intPtr(n int) *int { return &n }
