package pose

import (
	"fmt"
	"math"
)

type Wave string

const (
	// Sine drives sin(t·frequency)·amplitude
	Sine Wave = "sine"
	// Ramp drives t·frequency·amplitude, growing without bound
	Ramp Wave = "ramp"
)

type Signal struct {
	Wave      Wave    `json:"wave"`
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
}

// At evaluates the driving signal at elapsed time t (seconds).
func (s Signal) At(t float64) float64 {
	switch s.Wave {
	case Sine:
		return math.Sin(t*s.Frequency) * s.Amplitude
	case Ramp:
		return t * s.Frequency * s.Amplitude
	default:
		return 0
	}
}

type Channel int

const (
	PositionX Channel = iota
	PositionY
	PositionZ
	RotationX
	RotationY
	RotationZ
)

var channelNames = map[Channel]string{
	PositionX: "position.x",
	PositionY: "position.y",
	PositionZ: "position.z",
	RotationX: "rotation.x",
	RotationY: "rotation.y",
	RotationZ: "rotation.z",
}

// Valid reports whether c names one of the six transform channels.
func (c Channel) Valid() bool {
	_, ok := channelNames[c]
	return ok
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

func (c Channel) MarshalText() ([]byte, error) {
	name, ok := channelNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid channel: %d", int(c))
	}
	return []byte(name), nil
}

func (c *Channel) UnmarshalText(text []byte) error {
	for ch, name := range channelNames {
		if name == string(text) {
			*c = ch
			return nil
		}
	}
	return fmt.Errorf("unknown channel: %s", text)
}

// Drive sets Channel = Base + Gain·signal on each of Segments.
type Drive struct {
	Segments []Segment `json:"segments"`
	Channel  Channel   `json:"channel"`
	Base     float64   `json:"base"`
	Gain     float64   `json:"gain"`
}

// Motion is one exercise's animation: a single driving signal fanned out to joint channels.
type Motion struct {
	Signal Signal  `json:"signal"`
	Drives []Drive `json:"drives"`
}

// Validate rejects drives that would not move anything.
func (m Motion) Validate() error {
	for i, d := range m.Drives {
		if !d.Channel.Valid() {
			return fmt.Errorf("drive %d: invalid channel: %d", i, int(d.Channel))
		}
		if len(d.Segments) == 0 {
			return fmt.Errorf("drive %d: no segments", i)
		}
		for _, s := range d.Segments {
			if !s.Valid() {
				return fmt.Errorf("drive %d: invalid segment: %d", i, int(s))
			}
		}
	}
	return nil
}

var (
	upperArms = []Segment{LeftUpperArm, RightUpperArm}
	upperLegs = []Segment{LeftUpperLeg, RightUpperLeg}
)

var motions = map[Exercise]Motion{
	Squat: {
		Signal: Signal{Wave: Sine, Frequency: 2, Amplitude: 0.2},
		Drives: []Drive{
			{Segments: []Segment{Root}, Channel: PositionY, Base: 0, Gain: 1},
			{Segments: upperLegs, Channel: RotationX, Base: 0, Gain: -2},
		},
	},
	PushUp: {
		Signal: Signal{Wave: Sine, Frequency: 3, Amplitude: 0.1},
		Drives: []Drive{
			{Segments: []Segment{Root}, Channel: PositionY, Base: -0.7, Gain: 1},
			{Segments: upperArms, Channel: RotationX, Base: math.Pi / 2, Gain: -3},
		},
	},
	JumpingJacks: {
		Signal: Signal{Wave: Sine, Frequency: 3, Amplitude: 0.1},
		Drives: []Drive{
			{Segments: []Segment{Root}, Channel: PositionY, Base: 0, Gain: 1},
			{Segments: upperArms, Channel: RotationZ, Base: 0, Gain: math.Pi / 4 * 3},
			{Segments: upperLegs, Channel: RotationX, Base: 0, Gain: -math.Pi / 6 * 3},
		},
	},
	ArmCircles: {
		Signal: Signal{Wave: Ramp, Frequency: 3, Amplitude: 1},
		Drives: []Drive{
			{Segments: upperArms, Channel: RotationZ, Base: 0, Gain: 1},
		},
	},
}

// MotionFor returns a copy of the motion table entry for the given exercise.
func MotionFor(exercise Exercise) (Motion, bool) {
	m, ok := motions[exercise]
	if !ok {
		return Motion{}, false
	}

	drives := make([]Drive, len(m.Drives))
	for i, d := range m.Drives {
		segments := make([]Segment, len(d.Segments))
		copy(segments, d.Segments)
		d.Segments = segments
		drives[i] = d
	}
	m.Drives = drives

	return m, true
}
