package quality

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
)

// ColumnStat is a per-column summary embedded in the report and carried
// into dataset version metadata.
type ColumnStat struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

func columnStats(rows []cmapss.EnrichedRun) []ColumnStat {
	if len(rows) == 0 {
		return nil
	}

	columns := cmapss.Columns()
	values := make([][]float64, len(columns))
	for i := range values {
		values[i] = make([]float64, 0, len(rows))
	}
	for _, row := range rows {
		for i, v := range row.Values() {
			values[i] = append(values[i], v)
		}
	}

	frame := make([]series.Series, len(columns))
	for i, name := range columns {
		frame[i] = series.New(values[i], series.Float, name)
	}
	df := dataframe.New(frame...)

	stats := make([]ColumnStat, 0, len(columns))
	for _, name := range df.Names() {
		col := df.Col(name)
		stats = append(stats, ColumnStat{
			Column: name,
			Min:    col.Min(),
			Max:    col.Max(),
			Mean:   col.Mean(),
		})
	}
	return stats
}
