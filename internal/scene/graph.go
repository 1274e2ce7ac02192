package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var _ Surface = (*Graph)(nil)

const noParent NodeID = -1

type graphNode struct {
	name     string
	group    bool
	shape    Shape
	material Material
	parent   NodeID
	position mgl64.Vec3
	rotation mgl64.Vec3
}

// Graph is an in-memory Surface. It resolves world transforms the way
// three.js does: local = T·Rx·Ry·Rz, world = parentWorld·local.
// Not safe for concurrent use; a graph belongs to a single render loop.
type Graph struct {
	nodes []graphNode
}

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) CreateGroup(name string) (NodeID, error) {
	g.nodes = append(g.nodes, graphNode{name: name, group: true, parent: noParent})
	return NodeID(len(g.nodes) - 1), nil
}

func (g *Graph) CreateSegment(name string, shape Shape, material Material) (NodeID, error) {
	if shape.Kind != Cylinder && shape.Kind != Sphere {
		return 0, fmt.Errorf("segment %s: unsupported shape [%s]", name, shape.Kind)
	}
	g.nodes = append(g.nodes, graphNode{
		name:     name,
		shape:    shape,
		material: material,
		parent:   noParent,
	})
	return NodeID(len(g.nodes) - 1), nil
}

func (g *Graph) node(id NodeID) (*graphNode, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return &g.nodes[id], nil
}

func (g *Graph) SetParent(child, parent NodeID) error {
	c, err := g.node(child)
	if err != nil {
		return err
	}
	if _, err := g.node(parent); err != nil {
		return err
	}
	for p := parent; p != noParent; p = g.nodes[p].parent {
		if p == child {
			return ErrCycle
		}
	}
	c.parent = parent
	return nil
}

func (g *Graph) SetPosition(id NodeID, position mgl64.Vec3) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	n.position = position
	return nil
}

func (g *Graph) SetRotation(id NodeID, rotation mgl64.Vec3) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	n.rotation = rotation
	return nil
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) Lookup(name string) (NodeID, bool) {
	for i, n := range g.nodes {
		if n.name == name {
			return NodeID(i), true
		}
	}
	return noParent, false
}

func (g *Graph) Parent(id NodeID) (NodeID, bool) {
	n, err := g.node(id)
	if err != nil || n.parent == noParent {
		return noParent, false
	}
	return n.parent, true
}

// Local returns the node's position and rotation relative to its parent.
func (g *Graph) Local(id NodeID) (position, rotation mgl64.Vec3, err error) {
	n, err := g.node(id)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return n.position, n.rotation, nil
}

func localMatrix(n *graphNode) mgl64.Mat4 {
	return mgl64.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
		Mul4(mgl64.HomogRotate3DX(n.rotation.X())).
		Mul4(mgl64.HomogRotate3DY(n.rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(n.rotation.Z()))
}

func (g *Graph) World(id NodeID) (mgl64.Mat4, error) {
	n, err := g.node(id)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	world := localMatrix(n)
	for p := n.parent; p != noParent; p = g.nodes[p].parent {
		world = localMatrix(&g.nodes[p]).Mul4(world)
	}
	return world, nil
}

// WorldPosition returns the origin of the node in scene coordinates.
func (g *Graph) WorldPosition(id NodeID) (mgl64.Vec3, error) {
	world, err := g.World(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return world.Col(3).Vec3(), nil
}
