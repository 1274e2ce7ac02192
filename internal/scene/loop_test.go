package scene

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/2beens/infofit/internal/pose"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoop_Defaults(t *testing.T) {
	loop := NewLoop(LoopParams{Exercise: pose.Squat})
	assert.Equal(t, time.Second/DefaultFPS, loop.Interval())

	loop = NewLoop(LoopParams{Exercise: pose.Squat, FPS: 1000})
	assert.Equal(t, time.Second/DefaultFPS, loop.Interval())

	loop = NewLoop(LoopParams{Exercise: pose.Squat, FPS: 30})
	assert.Equal(t, time.Second/30, loop.Interval())
}

func TestLoop_Step(t *testing.T) {
	graph, figure := buildDefault(t)
	loop := NewLoop(LoopParams{Exercise: pose.JumpingJacks, Figure: figure})

	for i, elapsed := range []float64{0, 0.5, 1.0} {
		frame, err := loop.Step(elapsed)
		require.NoError(t, err)
		assert.Equal(t, i, frame.Index)
		assert.Equal(t, elapsed, frame.Time)
		assert.Equal(t, pose.JumpingJacks, frame.Exercise)
		assert.Equal(t, pose.Compute(pose.JumpingJacks, elapsed), frame.Pose)
	}

	// the figure holds the last applied frame
	jump := math.Sin(3) * 0.1
	assertVec(t, mgl64.Vec3{0, jump, 0}, worldPosition(t, graph, figure, pose.Root))
}

func TestLoop_StepWithoutFigure(t *testing.T) {
	loop := NewLoop(LoopParams{Exercise: pose.ArmCircles})
	frame, err := loop.Step(2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, frame.Pose.At(pose.LeftUpperArm).Rotation.Z())
}

func TestLoop_RunUntilCancelled(t *testing.T) {
	_, figure := buildDefault(t)
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	ticks := 0
	loop := NewLoop(LoopParams{
		Exercise: pose.Squat,
		Figure:   figure,
		FPS:      MaxFPS,
		Clock: func() time.Time {
			ticks++
			return start.Add(time.Duration(ticks) * time.Second)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames []Frame
	err := loop.Run(ctx, func(frame Frame) error {
		frames = append(frames, frame)
		if len(frames) == 3 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, frames, 3)

	for i, frame := range frames {
		assert.Equal(t, i, frame.Index)
		expected := float64(start.Add(time.Duration(i+1)*time.Second).UnixMilli()) * 0.001
		assert.Equal(t, expected, frame.Time)
		assert.Equal(t, pose.Compute(pose.Squat, expected), frame.Pose)
	}
}

func TestLoop_RunStopsOnFrameError(t *testing.T) {
	loop := NewLoop(LoopParams{Exercise: pose.PushUp, FPS: MaxFPS})
	errGone := errors.New("client gone")

	calls := 0
	err := loop.Run(context.Background(), func(Frame) error {
		calls++
		return errGone
	})
	assert.ErrorIs(t, err, errGone)
	assert.Equal(t, 1, calls)
}

func TestSample(t *testing.T) {
	keyframes, err := Sample(DefaultBlueprint(), pose.Squat, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, keyframes, 11)

	for i, kf := range keyframes {
		assert.InDelta(t, float64(i)/10, kf.Time, tolerance)
		assert.Len(t, kf.Joints, len(pose.Segments()))
		assert.InDelta(t, math.Sin(kf.Time*2)*0.2, kf.Joints[pose.Root].Y(), tolerance)
	}
}

func TestSample_UnknownExerciseStaysAtRest(t *testing.T) {
	keyframes, err := Sample(DefaultBlueprint(), "Burpee", 10, 10.5, 4)
	require.NoError(t, err)
	require.Len(t, keyframes, 3)

	for _, kf := range keyframes {
		assertVec(t, mgl64.Vec3{-0.1, -0.9, 0}, kf.Joints[pose.LeftLowerLeg])
		assertVec(t, mgl64.Vec3{0, 0.5, 0}, kf.Joints[pose.Head])
	}
}

func TestSample_InvalidRange(t *testing.T) {
	for name, tc := range map[string]struct {
		from, to float64
		fps      int
	}{
		"reversed":     {from: 2, to: 1, fps: 10},
		"nan":          {from: math.NaN(), to: 1, fps: 10},
		"inf":          {from: 0, to: math.Inf(1), fps: 10},
		"zero-fps":     {from: 0, to: 1, fps: 0},
		"too-fast":     {from: 0, to: 1, fps: MaxFPS + 1},
		"too-many":     {from: 0, to: 100, fps: 60},
		"negative-fps": {from: 0, to: 1, fps: -5},
		"huge-span":    {from: 0, to: 1e300, fps: 60},
		"inf-span":     {from: -math.MaxFloat64, to: math.MaxFloat64, fps: 1},
		"over-int64":   {from: -1e300, to: 1e300, fps: MaxFPS},
	} {
		t.Run(name, func(t *testing.T) {
			keyframes, err := Sample(DefaultBlueprint(), pose.Squat, tc.from, tc.to, tc.fps)
			assert.Nil(t, keyframes)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}
