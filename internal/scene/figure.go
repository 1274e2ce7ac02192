package scene

import (
	"fmt"

	"github.com/2beens/infofit/internal/pose"

	"github.com/go-gl/mathgl/mgl64"
)

// Figure is a skeleton staged on a Surface. Its structure is fixed once built,
// only node transforms change afterwards.
type Figure struct {
	surface Surface
	nodes   map[pose.Segment]NodeID
	rest    map[pose.Segment]mgl64.Vec3
}

// Build creates the root group and every blueprint segment on the surface.
func Build(surface Surface, blueprint Blueprint) (*Figure, error) {
	rootID, err := surface.CreateGroup(pose.Root.String())
	if err != nil {
		return nil, fmt.Errorf("create root group: %w", err)
	}

	f := &Figure{
		surface: surface,
		nodes:   map[pose.Segment]NodeID{pose.Root: rootID},
		rest:    map[pose.Segment]mgl64.Vec3{pose.Root: {}},
	}

	for _, spec := range blueprint.Segments {
		if spec.Segment == pose.Root || !spec.Segment.Valid() {
			return nil, fmt.Errorf("invalid blueprint segment: %s", spec.Segment)
		}
		if _, exists := f.nodes[spec.Segment]; exists {
			return nil, fmt.Errorf("duplicate blueprint segment: %s", spec.Segment)
		}
		parentID, ok := f.nodes[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("segment %s, parent %s: %w", spec.Segment, spec.Parent, ErrUnknownParent)
		}

		id, err := surface.CreateSegment(spec.Segment.String(), spec.Shape, spec.Material)
		if err != nil {
			return nil, fmt.Errorf("create segment %s: %w", spec.Segment, err)
		}
		if err := surface.SetPosition(id, spec.Position); err != nil {
			return nil, fmt.Errorf("place segment %s: %w", spec.Segment, err)
		}
		if err := surface.SetParent(id, parentID); err != nil {
			return nil, fmt.Errorf("attach segment %s: %w", spec.Segment, err)
		}

		f.nodes[spec.Segment] = id
		f.rest[spec.Segment] = spec.Position
	}

	return f, nil
}

func (f *Figure) Node(s pose.Segment) (NodeID, bool) {
	id, ok := f.nodes[s]
	return id, ok
}

// Apply writes rest transform + pose offset to every built segment.
// Segments not present in the blueprint are skipped.
func (f *Figure) Apply(p pose.Pose) error {
	for _, s := range pose.Segments() {
		id, ok := f.nodes[s]
		if !ok {
			continue
		}
		offset := p.At(s)
		if err := f.surface.SetPosition(id, f.rest[s].Add(offset.Position)); err != nil {
			return fmt.Errorf("set %s position: %w", s, err)
		}
		if err := f.surface.SetRotation(id, offset.Rotation); err != nil {
			return fmt.Errorf("set %s rotation: %w", s, err)
		}
	}
	return nil
}
