package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrUnknownParent = errors.New("parent segment not built yet")
	ErrCycle         = errors.New("parenting would create a cycle")
)

type NodeID int

//go:generate mockgen -source=surface.go -destination=surface_mock.go -package=scene

// Surface is the scene graph a figure is staged on.
type Surface interface {
	CreateGroup(name string) (NodeID, error)
	CreateSegment(name string, shape Shape, material Material) (NodeID, error)
	SetParent(child, parent NodeID) error
	SetPosition(node NodeID, position mgl64.Vec3) error
	SetRotation(node NodeID, rotation mgl64.Vec3) error
}
