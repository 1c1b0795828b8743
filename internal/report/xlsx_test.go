package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/resilience"
)

func readSheet(t *testing.T, path, name string) [][]string {
	t.Helper()
	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[name]
	require.True(t, ok, "sheet %q missing", name)

	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func intp(n int) *int { return &n }
func floatp(f float64) *float64 { return &f }

func TestWriteXLSX_FullSnapshot(t *testing.T) {
	t.Parallel()

	snap := &monitoring.Snapshot{
		ModelInfo: &model.ModelInfoSnapshot{
			Metrics: map[string]model.ModelMetrics{
				"ensemble": {Accuracy: 0.99, F1: 0.82, Precision: 0.88, Recall: 0.77, ROCAUC: 0.98},
				"xgboost":  {Accuracy: 0.98, F1: 0.81, Precision: 0.85, Recall: 0.78, ROCAUC: 0.97},
			},
			TrainingSamples:    intp(1049575),
			FeatureColumns:     []string{"category", "amount"},
			CategoricalColumns: []string{"category"},
			NumericColumns:     []string{"amount"},
		},
		ModelInfoStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
		Monitoring: &model.MonitoringSummary{
			TotalPredictions: intp(42),
			FraudRate:        floatp(11.9),
		},
		MonitoringStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
	}

	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, WriteXLSX(path, snap))

	perf := readSheet(t, path, SheetPerformance)
	require.Len(t, perf, 3)
	assert.Equal(t, "Model", perf[0][0])
	assert.Equal(t, "ROC AUC", perf[0][5])
	assert.Equal(t, "XGBoost", perf[1][0])
	assert.Equal(t, "Ensemble", perf[2][0])

	dataset := readSheet(t, path, SheetDataset)
	assert.Equal(t, []string{"Training samples", "1049575"}, dataset[1])
	assert.Equal(t, []string{"Test samples", "N/A"}, dataset[2])
	assert.Equal(t, []string{"Features", "2"}, dataset[3])

	mon := readSheet(t, path, SheetMonitoring)
	assert.Equal(t, []string{"Total predictions", "42"}, mon[1])
	assert.Equal(t, []string{"Fraud predictions", "N/A"}, mon[2])
}

func TestWriteXLSX_FailedHalf(t *testing.T) {
	t.Parallel()

	err := &resilience.TimedOutError{Endpoint: "/logs/summary"}
	snap := &monitoring.Snapshot{
		ModelInfo:       &model.ModelInfoSnapshot{},
		ModelInfoStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
		MonitoringStatus: monitoring.FetchStatus{
			State:   model.FetchTimedOut,
			Err:     err,
			Message: resilience.Remediation(err),
		},
	}

	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, WriteXLSX(path, snap))

	mon := readSheet(t, path, SheetMonitoring)
	require.Len(t, mon, 2)
	assert.Equal(t, []string{"Status", "timed_out"}, mon[0])
	assert.Contains(t, mon[1][1], "waking up")
}

func TestWriteXLSX_BadPath(t *testing.T) {
	t.Parallel()

	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "stats.xlsx"), &monitoring.Snapshot{})
	assert.Error(t, err)
}
