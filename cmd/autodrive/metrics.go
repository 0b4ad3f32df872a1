package main

import (
	"go.opencensus.io/stats/view"

	"github.com/viamrobotics/autodrive/logging"
)

// metricsLogger exports view data to the log.
type metricsLogger struct {
	logger logging.Logger
}

func (m *metricsLogger) ExportView(data *view.Data) {
	for _, row := range data.Rows {
		fields := []interface{}{"view", data.View.Name}
		for _, t := range row.Tags {
			fields = append(fields, t.Key.Name(), t.Value)
		}
		switch agg := row.Data.(type) {
		case *view.CountData:
			fields = append(fields, "count", agg.Value)
		case *view.DistributionData:
			fields = append(fields, "count", agg.Count, "mean", agg.Mean, "max", agg.Max)
		case *view.LastValueData:
			fields = append(fields, "value", agg.Value)
		case *view.SumData:
			fields = append(fields, "sum", agg.Value)
		}
		m.logger.Infow("metric", fields...)
	}
}
