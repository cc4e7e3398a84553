package ingestion

// Mech location indices, as stored in mount.Mount locations.
const (
	LocHD = 0
	LocCT = 1
	LocLT = 2
	LocRT = 3
	LocLA = 4
	LocRA = 5
	LocLL = 6
	LocRL = 7
	LocCL = 8
)

// locationHeaders lists the block headers in assembly order. Quad legs share
// the arm indices, the way MegaMek numbers them.
var locationHeaders = []string{
	"Head",
	"Center Torso",
	"Left Torso",
	"Right Torso",
	"Left Arm",
	"Front Left Leg",
	"Right Arm",
	"Front Right Leg",
	"Left Leg",
	"Rear Left Leg",
	"Right Leg",
	"Rear Right Leg",
	// LAM
	"Center Leg",
}

// LocationIndex maps a header or abbreviation to a location index, or -1.
func LocationIndex(name string) int {
	switch name {
	case "HD", "Head":
		return LocHD
	case "CT", "Center Torso":
		return LocCT
	case "LT", "Left Torso":
		return LocLT
	case "RT", "Right Torso":
		return LocRT
	case "LA", "Left Arm", "FLL", "Front Left Leg":
		return LocLA
	case "RA", "Right Arm", "FRL", "Front Right Leg":
		return LocRA
	case "LL", "Left Leg", "RLL", "Rear Left Leg":
		return LocLL
	case "RL", "Right Leg", "RRL", "Rear Right Leg":
		return LocRL
	case "CL", "Center Leg":
		return LocCL
	default:
		return -1
	}
}

var locationAbbrevs = [...]string{"HD", "CT", "LT", "RT", "LA", "RA", "LL", "RL", "CL"}

// LocationAbbrev returns the short name of a location index.
func LocationAbbrev(loc int) string {
	if loc < 0 || loc >= len(locationAbbrevs) {
		return "??"
	}
	return locationAbbrevs[loc]
}
