package campus

import "fmt"

// Sensor ranges. Bounds are inclusive.
const (
	MinFootfall  = 60
	MaxFootfall  = 280
	MinOccupancy = 30
	MaxOccupancy = 100
	MinPower     = 20
	MaxPower     = 90
)

// Footfall thresholds. Comparisons are strict: a reading sitting exactly on a
// threshold stays in the lower band.
const (
	MediumRiskFootfall       = 120
	HighRiskFootfall         = 200
	UpgradeFootfallThreshold = 220
)

// Risk is the safety classification of a zone.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

func (r Risk) String() string {
	switch r {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalText encodes the risk by name so exports read "High" rather than 2.
func (r Risk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Risk) UnmarshalText(text []byte) error {
	switch string(text) {
	case "High":
		*r = RiskHigh
	case "Medium":
		*r = RiskMedium
	case "Low":
		*r = RiskLow
	default:
		return fmt.Errorf("unknown risk level %q", text)
	}
	return nil
}

// Classify maps a footfall count to its risk level.
func Classify(footfall int) Risk {
	switch {
	case footfall > HighRiskFootfall:
		return RiskHigh
	case footfall > MediumRiskFootfall:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ZoneReading is one sample for one zone. Risk is always derived from
// Footfall; build readings with NewReading.
type ZoneReading struct {
	Zone      Zone `json:"zone" yaml:"zone"`
	Footfall  int  `json:"footfall" yaml:"footfall"`
	Occupancy int  `json:"occupancy" yaml:"occupancy"`
	Power     int  `json:"power" yaml:"power"`
	Risk      Risk `json:"risk" yaml:"risk"`
}

// NewReading builds a complete reading, classifying it inline.
func NewReading(zone Zone, footfall, occupancy, power int) ZoneReading {
	return ZoneReading{
		Zone:      zone,
		Footfall:  footfall,
		Occupancy: occupancy,
		Power:     power,
		Risk:      Classify(footfall),
	}
}

// NeedsUpgrade reports whether the zone is busy enough to warrant an
// infrastructure upgrade. This is a capacity-planning signal and is stricter
// than the High risk band.
func NeedsUpgrade(r ZoneReading) bool {
	return r.Footfall > UpgradeFootfallThreshold
}

// Snapshot is the set of readings for one refresh cycle, one per zone in
// zone declaration order.
type Snapshot []ZoneReading
