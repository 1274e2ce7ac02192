package pose

import "fmt"

type Segment int

// Root is the "human" group every other segment hangs from, directly or via a limb.
const (
	Root Segment = iota
	Torso
	Head
	LeftUpperArm
	RightUpperArm
	LeftLowerArm
	RightLowerArm
	LeftUpperLeg
	RightUpperLeg
	LeftLowerLeg
	RightLowerLeg

	segmentsCount
)

var segmentNames = [segmentsCount]string{
	Root:          "human",
	Torso:         "torso",
	Head:          "head",
	LeftUpperArm:  "leftUpperArm",
	RightUpperArm: "rightUpperArm",
	LeftLowerArm:  "leftLowerArm",
	RightLowerArm: "rightLowerArm",
	LeftUpperLeg:  "leftUpperLeg",
	RightUpperLeg: "rightUpperLeg",
	LeftLowerLeg:  "leftLowerLeg",
	RightLowerLeg: "rightLowerLeg",
}

// Segments returns the root followed by all rigid body parts.
func Segments() []Segment {
	all := make([]Segment, 0, segmentsCount)
	for s := Root; s < segmentsCount; s++ {
		all = append(all, s)
	}
	return all
}

// Valid reports whether s is the root or one of the figure's segments.
func (s Segment) Valid() bool {
	return s >= Root && s < segmentsCount
}

func (s Segment) String() string {
	if !s.Valid() {
		return fmt.Sprintf("segment(%d)", int(s))
	}
	return segmentNames[s]
}

func (s Segment) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid segment: %d", int(s))
	}
	return []byte(segmentNames[s]), nil
}

func (s *Segment) UnmarshalText(text []byte) error {
	for i, name := range segmentNames {
		if name == string(text) {
			*s = Segment(i)
			return nil
		}
	}
	return fmt.Errorf("unknown segment: %s", text)
}
