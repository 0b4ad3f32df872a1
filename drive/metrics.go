package drive

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	perceptionLatency = stats.Float64(
		"autodrive/perception_latency", "Time spent in one perception tick", stats.UnitMilliseconds)
	lineLostEvents = stats.Int64(
		"autodrive/line_lost", "Times the lane was lost while in autodrive", stats.UnitDimensionless)
	obstacleTicks = stats.Int64(
		"autodrive/obstacle_ticks", "Perception ticks with an obstacle ahead", stats.UnitDimensionless)
	decisionCount = stats.Int64(
		"autodrive/decisions", "Steering decisions by source", stats.UnitDimensionless)

	sourceKey = tag.MustNewKey("source")
)

// Views returns the views over the pilot's measurements. Register them with view.Register
// to export them.
func Views() []*view.View {
	return []*view.View{
		{
			Name:        "autodrive/perception_latency",
			Description: "Distribution of perception tick latency",
			Measure:     perceptionLatency,
			Aggregation: view.Distribution(0, 1, 2, 5, 10, 20, 50, 100),
		},
		{
			Name:        "autodrive/line_lost",
			Description: "Times the lane was lost",
			Measure:     lineLostEvents,
			Aggregation: view.Count(),
		},
		{
			Name:        "autodrive/obstacle_ticks",
			Description: "Ticks with an obstacle ahead",
			Measure:     obstacleTicks,
			Aggregation: view.Count(),
		},
		{
			Name:        "autodrive/decisions",
			Description: "Steering decisions by source",
			Measure:     decisionCount,
			TagKeys:     []tag.Key{sourceKey},
			Aggregation: view.Count(),
		},
	}
}
