// Package campus models the readings collected from the monitored campus
// zones and the rules that classify them on every refresh cycle.
package campus

// Zone is a monitored campus location.
type Zone string

const (
	MainGate      Zone = "Main Gate"
	HostelArea    Zone = "Hostel Area"
	AcademicBlock Zone = "Academic Block"
	Cafeteria     Zone = "Cafeteria"
)

var zones = [...]Zone{MainGate, HostelArea, AcademicBlock, Cafeteria}

// Zones returns the monitored zones in declaration order.
// Callers receive a copy and may modify it freely.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones[:])
	return out
}

func (z Zone) String() string {
	return string(z)
}
