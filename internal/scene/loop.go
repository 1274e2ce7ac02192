package scene

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/infofit/internal/pose"

	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultFPS = 60
	MaxFPS     = 120
	MaxFrames  = 600
)

var ErrInvalidRange = errors.New("invalid sampling range")

type Frame struct {
	Exercise pose.Exercise `json:"exercise"`
	Index    int           `json:"index"`
	Time     float64       `json:"t"`
	Pose     pose.Pose     `json:"pose"`
}

type LoopParams struct {
	Exercise pose.Exercise
	Figure   *Figure
	FPS      int
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Loop drives one figure, one frame per tick. A loop and its figure are owned
// by the goroutine calling Run or Step.
type Loop struct {
	exercise pose.Exercise
	figure   *Figure
	interval time.Duration
	clock    func() time.Time
	frames   int
}

func NewLoop(params LoopParams) *Loop {
	fps := params.FPS
	if fps <= 0 || fps > MaxFPS {
		fps = DefaultFPS
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Loop{
		exercise: params.Exercise,
		figure:   params.Figure,
		interval: time.Second / time.Duration(fps),
		clock:    clock,
	}
}

func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Step computes the pose at elapsed time t and applies it to the figure.
func (l *Loop) Step(t float64) (Frame, error) {
	p := pose.Compute(l.exercise, t)
	if l.figure != nil {
		if err := l.figure.Apply(p); err != nil {
			return Frame{}, fmt.Errorf("apply frame %d: %w", l.frames, err)
		}
	}

	frame := Frame{
		Exercise: l.exercise,
		Index:    l.frames,
		Time:     t,
		Pose:     p,
	}
	l.frames++

	return frame, nil
}

// Run steps the loop on every tick, with t in wall-clock seconds, until ctx is
// done or onFrame fails. Cancellation is the normal way to tear a view down.
func (l *Loop) Run(ctx context.Context, onFrame func(Frame) error) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	log.Tracef("render loop [%s] started, interval %s", l.exercise, l.interval)
	defer log.Tracef("render loop [%s] stopped after %d frames", l.exercise, l.frames)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			frame, err := l.Step(wallClockSeconds(l.clock()))
			if err != nil {
				return err
			}
			if err := onFrame(frame); err != nil {
				return err
			}
		}
	}
}

func wallClockSeconds(now time.Time) float64 {
	return float64(now.UnixMilli()) * 0.001
}

type Keyframe struct {
	Time   float64                     `json:"t"`
	Joints map[pose.Segment]mgl64.Vec3 `json:"joints"`
}

// Sample stages a fresh figure and steps it over [from, to] at the given rate,
// recording the world position of every segment.
func Sample(blueprint Blueprint, exercise pose.Exercise, from, to float64, fps int) ([]Keyframe, error) {
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) || to < from {
		return nil, fmt.Errorf("from %f to %f: %w", from, to, ErrInvalidRange)
	}
	if fps <= 0 || fps > MaxFPS {
		return nil, fmt.Errorf("fps %d not in [1, %d]: %w", fps, MaxFPS, ErrInvalidRange)
	}
	// span may overflow to +Inf for finite bounds, so it is bounded before the int conversion
	span := math.Floor((to - from) * float64(fps))
	if span >= MaxFrames {
		return nil, fmt.Errorf("%g frames over the limit of %d: %w", span+1, MaxFrames, ErrInvalidRange)
	}
	count := int(span) + 1

	graph := NewGraph()
	figure, err := Build(graph, blueprint)
	if err != nil {
		return nil, fmt.Errorf("build figure: %w", err)
	}
	loop := NewLoop(LoopParams{Exercise: exercise, Figure: figure, FPS: fps})

	keyframes := make([]Keyframe, 0, count)
	for i := 0; i < count; i++ {
		t := from + float64(i)/float64(fps)
		if _, err := loop.Step(t); err != nil {
			return nil, err
		}

		joints := make(map[pose.Segment]mgl64.Vec3, len(figure.nodes))
		for s, id := range figure.nodes {
			pos, err := graph.WorldPosition(id)
			if err != nil {
				return nil, fmt.Errorf("world position of %s: %w", s, err)
			}
			joints[s] = pos
		}
		keyframes = append(keyframes, Keyframe{Time: t, Joints: joints})
	}

	return keyframes, nil
}
