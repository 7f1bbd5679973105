package campus

// NoData marks an average that could not be computed because the snapshot
// was empty.
const NoData = -1

// Metrics are the summary statistics shown on the dashboard cards.
type Metrics struct {
	TotalFootfall int `json:"total_footfall" yaml:"total_footfall"`
	AvgOccupancy  int `json:"avg_occupancy" yaml:"avg_occupancy"`
	HighRiskZones int `json:"high_risk_zones" yaml:"high_risk_zones"`
	ActiveZones   int `json:"active_zones" yaml:"active_zones"`
}

// Aggregate computes the metrics of a snapshot. The average occupancy is
// truncated toward zero and is NoData for an empty snapshot.
func Aggregate(s Snapshot) Metrics {
	m := Metrics{
		AvgOccupancy: NoData,
		ActiveZones:  len(s),
	}
	if len(s) == 0 {
		return m
	}

	occupancy := 0
	for _, r := range s {
		m.TotalFootfall += r.Footfall
		occupancy += r.Occupancy
		if r.Risk == RiskHigh {
			m.HighRiskZones++
		}
	}
	m.AvgOccupancy = occupancy / len(s)
	return m
}

// HasOccupancy is false when AvgOccupancy holds the NoData sentinel.
func (m Metrics) HasOccupancy() bool {
	return m.AvgOccupancy != NoData
}
