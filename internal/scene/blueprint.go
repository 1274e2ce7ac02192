package scene

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/infofit/internal/pose"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

type ShapeKind string

const (
	Cylinder ShapeKind = "cylinder"
	Sphere   ShapeKind = "sphere"
)

// Shape describes segment geometry. Only the fields of its Kind are meaningful.
type Shape struct {
	Kind ShapeKind

	// cylinder
	RadiusTop      float64
	RadiusBottom   float64
	Height         float64
	RadialSegments int

	// sphere
	Radius         float64
	WidthSegments  int
	HeightSegments int
}

func NewCylinder(radiusTop, radiusBottom, height float64, radialSegments int) Shape {
	return Shape{
		Kind:           Cylinder,
		RadiusTop:      radiusTop,
		RadiusBottom:   radiusBottom,
		Height:         height,
		RadialSegments: radialSegments,
	}
}

func NewSphere(radius float64, widthSegments, heightSegments int) Shape {
	return Shape{
		Kind:           Sphere,
		Radius:         radius,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
	}
}

// Args returns the geometry constructor arguments, in three.js order.
func (s Shape) Args() []float64 {
	switch s.Kind {
	case Cylinder:
		return []float64{s.RadiusTop, s.RadiusBottom, s.Height, float64(s.RadialSegments)}
	case Sphere:
		return []float64{s.Radius, float64(s.WidthSegments), float64(s.HeightSegments)}
	default:
		return nil
	}
}

func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind ShapeKind `json:"kind"`
		Args []float64 `json:"args"`
	}{
		Kind: s.Kind,
		Args: s.Args(),
	})
}

type Material struct {
	Name  string
	Color colorful.Color
}

func (m Material) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Color uint32 `json:"color"`
		Hex   string `json:"hex"`
	}{
		Name:  m.Name,
		Color: ColorValue(m.Color),
		Hex:   m.Color.Hex(),
	})
}

// ColorValue packs a colour into the 0xRRGGBB integer three.js expects.
func ColorValue(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("invalid colour %s: %s", hex, err))
	}
	return c
}

var (
	SkinMaterial  = Material{Name: "skin", Color: mustHex("#F5D3C8")}
	ClothMaterial = Material{Name: "cloth", Color: mustHex("#3498DB")}
)

type LightKind string

const (
	AmbientLight     LightKind = "ambient"
	DirectionalLight LightKind = "directional"
)

type Light struct {
	Kind      LightKind      `json:"kind"`
	Color     colorful.Color `json:"-"`
	Intensity float64        `json:"intensity"`
	Position  mgl64.Vec3     `json:"position"`
}

func (l Light) MarshalJSON() ([]byte, error) {
	type plain Light
	return json.Marshal(struct {
		plain
		Color uint32 `json:"color"`
	}{
		plain: plain(l),
		Color: ColorValue(l.Color),
	})
}

type Camera struct {
	FOV      float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Position mgl64.Vec3 `json:"position"`
}

// SegmentSpec is one body part of the figure, placed relative to its parent.
type SegmentSpec struct {
	Segment  pose.Segment `json:"segment"`
	Parent   pose.Segment `json:"parent"`
	Shape    Shape        `json:"shape"`
	Material Material     `json:"material"`
	Position mgl64.Vec3   `json:"position"`
}

// Blueprint is everything needed to stage one exercise view.
// Segments are ordered so that every parent precedes its children.
type Blueprint struct {
	Segments []SegmentSpec `json:"segments"`
	Lights   []Light       `json:"lights"`
	Camera   Camera        `json:"camera"`
}

// DefaultBlueprint returns the stick figure shared by all exercises.
func DefaultBlueprint() Blueprint {
	upperArm := NewCylinder(0.05, 0.05, 0.3, 32)
	lowerArm := NewCylinder(0.04, 0.04, 0.3, 32)
	upperLeg := NewCylinder(0.07, 0.06, 0.4, 32)
	lowerLeg := NewCylinder(0.05, 0.05, 0.4, 32)

	return Blueprint{
		Segments: []SegmentSpec{
			{Segment: pose.Torso, Parent: pose.Root, Shape: NewCylinder(0.25, 0.2, 0.6, 32), Material: ClothMaterial},
			{Segment: pose.Head, Parent: pose.Root, Shape: NewSphere(0.15, 32, 32), Material: SkinMaterial, Position: mgl64.Vec3{0, 0.5, 0}},
			{Segment: pose.LeftUpperArm, Parent: pose.Root, Shape: upperArm, Material: SkinMaterial, Position: mgl64.Vec3{-0.3, 0.2, 0}},
			{Segment: pose.RightUpperArm, Parent: pose.Root, Shape: upperArm, Material: SkinMaterial, Position: mgl64.Vec3{0.3, 0.2, 0}},
			{Segment: pose.LeftLowerArm, Parent: pose.LeftUpperArm, Shape: lowerArm, Material: SkinMaterial, Position: mgl64.Vec3{0, -0.3, 0}},
			{Segment: pose.RightLowerArm, Parent: pose.RightUpperArm, Shape: lowerArm, Material: SkinMaterial, Position: mgl64.Vec3{0, -0.3, 0}},
			{Segment: pose.LeftUpperLeg, Parent: pose.Root, Shape: upperLeg, Material: ClothMaterial, Position: mgl64.Vec3{-0.1, -0.5, 0}},
			{Segment: pose.RightUpperLeg, Parent: pose.Root, Shape: upperLeg, Material: ClothMaterial, Position: mgl64.Vec3{0.1, -0.5, 0}},
			{Segment: pose.LeftLowerLeg, Parent: pose.LeftUpperLeg, Shape: lowerLeg, Material: ClothMaterial, Position: mgl64.Vec3{0, -0.4, 0}},
			{Segment: pose.RightLowerLeg, Parent: pose.RightUpperLeg, Shape: lowerLeg, Material: ClothMaterial, Position: mgl64.Vec3{0, -0.4, 0}},
		},
		Lights: []Light{
			{Kind: AmbientLight, Color: mustHex("#404040"), Intensity: 1},
			{Kind: DirectionalLight, Color: mustHex("#FFFFFF"), Intensity: 0.8, Position: mgl64.Vec3{1, 1, 1}.Normalize()},
		},
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: mgl64.Vec3{0, 1, 3},
		},
	}
}
