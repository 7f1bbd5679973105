package campus

import "time"

// Frame is everything a display surface needs to render one refresh cycle.
// Frames are built once and never modified.
type Frame struct {
	ID          string    `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Snapshot    Snapshot  `json:"snapshot" yaml:"snapshot"`
	Metrics     Metrics   `json:"metrics" yaml:"metrics"`
	Alerts      []Alert   `json:"alerts" yaml:"alerts"`
	Insights    []Insight `json:"insights" yaml:"insights"`
}

// NewFrame derives metrics and alerts from a snapshot. Insights are supplied
// by the caller since they come from the planning rules.
func NewFrame(id string, at time.Time, s Snapshot, insights []Insight) Frame {
	if insights == nil {
		insights = []Insight{}
	}
	return Frame{
		ID:          id,
		GeneratedAt: at,
		Snapshot:    s,
		Metrics:     Aggregate(s),
		Alerts:      Alerts(s),
		Insights:    insights,
	}
}
