package campus

import "fmt"

// Alert is the safety message shown for a zone.
type Alert struct {
	Zone    Zone   `json:"zone" yaml:"zone"`
	Risk    Risk   `json:"risk" yaml:"risk"`
	Message string `json:"message" yaml:"message"`
}

// AlertFor returns the safety alert for a single reading.
func AlertFor(r ZoneReading) Alert {
	var msg string
	switch r.Risk {
	case RiskHigh:
		msg = fmt.Sprintf("High crowd risk at %s", r.Zone)
	case RiskMedium:
		msg = fmt.Sprintf("Moderate crowding at %s", r.Zone)
	default:
		msg = fmt.Sprintf("%s is safe", r.Zone)
	}
	return Alert{Zone: r.Zone, Risk: r.Risk, Message: msg}
}

// Alerts returns one alert per reading, in snapshot order.
func Alerts(s Snapshot) []Alert {
	out := make([]Alert, 0, len(s))
	for _, r := range s {
		out = append(out, AlertFor(r))
	}
	return out
}

// Insight is a planning recommendation produced by a named rule.
type Insight struct {
	Zone    Zone   `json:"zone" yaml:"zone"`
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}
