package pose

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var _ json.Marshaler = Pose{}

// Transform is an offset from a segment's rest transform.
// Rotation holds Euler angles in radians, applied in XYZ order.
type Transform struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
}

func (tr *Transform) set(c Channel, v float64) {
	switch c {
	case PositionX:
		tr.Position[0] = v
	case PositionY:
		tr.Position[1] = v
	case PositionZ:
		tr.Position[2] = v
	case RotationX:
		tr.Rotation[0] = v
	case RotationY:
		tr.Rotation[1] = v
	case RotationZ:
		tr.Rotation[2] = v
	default:
		panic(fmt.Sprintf("set: invalid channel: %d", int(c)))
	}
}

// Pose holds the offsets of every segment, root included, for one instant.
// The zero value is the identity pose.
type Pose [segmentsCount]Transform

func (p Pose) At(s Segment) Transform {
	if !s.Valid() {
		return Transform{}
	}
	return p[s]
}

func (p Pose) Root() Transform {
	return p[Root]
}

func (p Pose) IsIdentity() bool {
	return p == Pose{}
}

func (p Pose) MarshalJSON() ([]byte, error) {
	offsets := make(map[Segment]Transform, segmentsCount)
	for s := Root; s < segmentsCount; s++ {
		offsets[s] = p[s]
	}
	return json.Marshal(offsets)
}

func (p *Pose) UnmarshalJSON(data []byte) error {
	var offsets map[Segment]Transform
	if err := json.Unmarshal(data, &offsets); err != nil {
		return err
	}
	*p = Pose{}
	for s, tr := range offsets {
		p[s] = tr
	}
	return nil
}

// Compute evaluates the pose of the exercise at elapsed time t (seconds).
// It is pure and total: an exercise without a motion yields the identity pose.
func Compute(exercise Exercise, t float64) Pose {
	var p Pose

	m, ok := motions[exercise]
	if !ok {
		return p
	}

	signal := m.Signal.At(t)
	for _, d := range m.Drives {
		v := d.Base + d.Gain*signal
		for _, s := range d.Segments {
			p[s].set(d.Channel, v)
		}
	}

	return p
}
