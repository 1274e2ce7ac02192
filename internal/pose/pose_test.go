package pose

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func randomTimes(n int) []float64 {
	times := []float64{0, -1.5, math.Pi, 1e6, float64(time.Now().Unix())}
	for i := 0; i < n; i++ {
		times = append(times, gofakeit.Float64Range(-1000, 1000))
	}
	return times
}

func TestCompute_Squat(t *testing.T) {
	for _, elapsed := range randomTimes(50) {
		p := Compute(Squat, elapsed)
		depth := math.Sin(elapsed*2) * 0.2

		assert.InDelta(t, depth, p.Root().Position.Y(), tolerance, "t=%f", elapsed)
		assert.InDelta(t, -2*depth, p.At(LeftUpperLeg).Rotation.X(), tolerance)
		assert.InDelta(t, -2*depth, p.At(RightUpperLeg).Rotation.X(), tolerance)
		assert.Equal(t, Transform{}, p.At(LeftUpperArm))
		assert.Equal(t, Transform{}, p.At(Head))
	}
}

func TestCompute_PushUp(t *testing.T) {
	for _, elapsed := range randomTimes(50) {
		p := Compute(PushUp, elapsed)
		height := math.Sin(elapsed*3) * 0.1

		assert.InDelta(t, -0.7+height, p.Root().Position.Y(), tolerance, "t=%f", elapsed)
		assert.InDelta(t, math.Pi/2-3*height, p.At(LeftUpperArm).Rotation.X(), tolerance)
		assert.InDelta(t, math.Pi/2-3*height, p.At(RightUpperArm).Rotation.X(), tolerance)
		assert.Equal(t, Transform{}, p.At(LeftUpperLeg))
	}
}

func TestCompute_JumpingJacks(t *testing.T) {
	for _, elapsed := range randomTimes(50) {
		p := Compute(JumpingJacks, elapsed)
		jump := math.Sin(elapsed*3) * 0.1

		assert.InDelta(t, jump, p.Root().Position.Y(), tolerance, "t=%f", elapsed)
		for _, arm := range []Segment{LeftUpperArm, RightUpperArm} {
			assert.InDelta(t, math.Pi/4*jump*3, p.At(arm).Rotation.Z(), tolerance)
		}
		for _, leg := range []Segment{LeftUpperLeg, RightUpperLeg} {
			assert.InDelta(t, -math.Pi/6*jump*3, p.At(leg).Rotation.X(), tolerance)
		}
	}
}

func TestCompute_ArmCircles(t *testing.T) {
	for _, elapsed := range randomTimes(50) {
		p := Compute(ArmCircles, elapsed)

		assert.Equal(t, elapsed*3, p.At(LeftUpperArm).Rotation.Z(), "t=%f", elapsed)
		assert.Equal(t, elapsed*3, p.At(RightUpperArm).Rotation.Z())
		assert.Equal(t, Transform{}, p.Root())
	}
}

func TestCompute_AtZero(t *testing.T) {
	assert.Zero(t, Compute(Squat, 0).Root().Position.Y())
	assert.Equal(t, -0.7, Compute(PushUp, 0).Root().Position.Y())
	assert.Zero(t, Compute(JumpingJacks, 0).Root().Position.Y())
	assert.Zero(t, Compute(ArmCircles, 0).At(LeftUpperArm).Rotation.Z())
	assert.Zero(t, Compute(ArmCircles, 0).At(RightUpperArm).Rotation.Z())
}

func TestCompute_Pure(t *testing.T) {
	for _, e := range append(Exercises(), "Burpee") {
		for _, elapsed := range randomTimes(10) {
			assert.Equal(t, Compute(e, elapsed), Compute(e, elapsed))
		}
	}
}

func TestCompute_SquatPeriodic(t *testing.T) {
	for _, elapsed := range randomTimes(20) {
		if math.Abs(elapsed) > 1e5 {
			// absolute error of the period shift grows with t
			continue
		}
		a := Compute(Squat, elapsed)
		b := Compute(Squat, elapsed+math.Pi)
		for _, s := range Segments() {
			assert.True(t, a.At(s).Position.ApproxEqualThreshold(b.At(s).Position, tolerance), "segment %s", s)
			assert.True(t, a.At(s).Rotation.ApproxEqualThreshold(b.At(s).Rotation, tolerance), "segment %s", s)
		}
	}
}

func TestCompute_UnknownExercise(t *testing.T) {
	for _, name := range []string{"", "Burpee", "squat", "Plank"} {
		p := Compute(Exercise(name), gofakeit.Float64Range(0, 100))
		assert.True(t, p.IsIdentity(), name)
		assert.Equal(t, Pose{}, p)
	}
}

func TestCompute_LargeTime(t *testing.T) {
	elapsed := float64(time.Now().UnixMilli()) * 0.001
	for _, e := range Exercises() {
		p := Compute(e, elapsed)
		for _, s := range Segments() {
			tr := p.At(s)
			for i := 0; i < 3; i++ {
				assert.False(t, math.IsNaN(tr.Position[i]) || math.IsInf(tr.Position[i], 0))
				assert.False(t, math.IsNaN(tr.Rotation[i]) || math.IsInf(tr.Rotation[i], 0))
			}
		}
	}
}

func TestCompute_MatchesMotionTable(t *testing.T) {
	elapsed := 0.37
	for _, e := range Exercises() {
		m, ok := MotionFor(e)
		require.True(t, ok)
		p := Compute(e, elapsed)
		signal := m.Signal.At(elapsed)
		for _, d := range m.Drives {
			for _, s := range d.Segments {
				tr := p.At(s)
				var got float64
				switch d.Channel {
				case PositionY:
					got = tr.Position.Y()
				case RotationX:
					got = tr.Rotation.X()
				case RotationZ:
					got = tr.Rotation.Z()
				default:
					t.Fatalf("unexpected channel %s", d.Channel)
				}
				assert.InDelta(t, d.Base+d.Gain*signal, got, tolerance)
			}
		}
	}
}

func TestMotionFor_ReturnsCopy(t *testing.T) {
	m, ok := MotionFor(Squat)
	require.True(t, ok)
	m.Drives[0].Gain = 100
	m.Drives[1].Segments[0] = Head

	fresh, ok := MotionFor(Squat)
	require.True(t, ok)
	assert.Equal(t, 1.0, fresh.Drives[0].Gain)
	assert.Equal(t, LeftUpperLeg, fresh.Drives[1].Segments[0])

	_, ok = MotionFor("Burpee")
	assert.False(t, ok)
}

func TestMotionTable_Valid(t *testing.T) {
	for _, e := range Exercises() {
		m, ok := MotionFor(e)
		require.True(t, ok, e)
		assert.NoError(t, m.Validate(), e)
	}
}

func TestMotion_ValidateRejectsBadDrives(t *testing.T) {
	for name, drive := range map[string]Drive{
		"unknown-channel": {Segments: []Segment{Root}, Channel: Channel(42), Gain: 1},
		"no-segments":     {Channel: RotationX, Gain: 1},
		"bad-segment":     {Segments: []Segment{Segment(-1)}, Channel: RotationX, Gain: 1},
	} {
		t.Run(name, func(t *testing.T) {
			m := Motion{Signal: Signal{Wave: Sine, Frequency: 1, Amplitude: 1}, Drives: []Drive{drive}}
			assert.Error(t, m.Validate())
		})
	}

	var c Channel
	require.Error(t, json.Unmarshal([]byte(`"rotation.w"`), &c))
	assert.False(t, Channel(-1).Valid())
	assert.True(t, RotationZ.Valid())
}

func TestTransform_SetPanicsOnInvalidChannel(t *testing.T) {
	var tr Transform
	assert.Panics(t, func() {
		tr.set(Channel(6), 1)
	})
	assert.Equal(t, Transform{}, tr)
}

func TestPose_JSON(t *testing.T) {
	p := Compute(JumpingJacks, 0.5)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]Transform
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, len(Segments()))
	assert.Contains(t, raw, "human")
	assert.Contains(t, raw, "leftUpperArm")

	var decoded Pose
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestMotion_JSON(t *testing.T) {
	m, ok := MotionFor(PushUp)
	require.True(t, ok)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"wave":"sine"`)
	assert.Contains(t, string(data), `"channel":"rotation.x"`)
	assert.Contains(t, string(data), `"segments":["leftUpperArm","rightUpperArm"]`)
}

func TestParseExercise(t *testing.T) {
	for name, expected := range map[string]Exercise{
		"Squat":        Squat,
		"squat":        Squat,
		"PUSHUP":       PushUp,
		"jumpingjacks": JumpingJacks,
		"ArmCircles":   ArmCircles,
	} {
		e, ok := ParseExercise(name)
		assert.True(t, ok, name)
		assert.Equal(t, expected, e)
		assert.True(t, e.Known())
	}

	e, ok := ParseExercise("Burpee")
	assert.False(t, ok)
	assert.Equal(t, Exercise("Burpee"), e)
	assert.False(t, e.Known())
}

func TestSegments(t *testing.T) {
	segments := Segments()
	require.Len(t, segments, 11)
	assert.Equal(t, Root, segments[0])
	assert.Equal(t, "human", Root.String())
	assert.Equal(t, "rightLowerLeg", RightLowerLeg.String())
	assert.Equal(t, "segment(42)", Segment(42).String())

	var s Segment
	require.NoError(t, s.UnmarshalText([]byte("leftLowerArm")))
	assert.Equal(t, LeftLowerArm, s)
	assert.Error(t, s.UnmarshalText([]byte("tail")))

	assert.True(t, Root.Valid())
	assert.True(t, RightLowerLeg.Valid())
	assert.False(t, Segment(-1).Valid())
	assert.False(t, Segment(len(Segments())).Valid())
}
