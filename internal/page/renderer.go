package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/2beens/infofit/internal/pose"
	"github.com/2beens/infofit/internal/scene"
	"github.com/2beens/infofit/internal/tips"
)

const (
	DefaultThreeJSURL = "https://cdnjs.cloudflare.com/ajax/libs/three.js/r128/three.min.js"

	title      = "3D Trainer"
	heading    = "InfoFit: Learn and Master Your Exercises!"
	subheading = "Your ultimate virtual guide to exercise with 3D models and posture tips."
	columns    = 2
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type exerciseView struct {
	Name        string
	Slug        string
	ContainerID string
	Tips        []string
	Blueprint   scene.Blueprint
	Motion      *pose.Motion
}

type pageView struct {
	Title      string
	Heading    string
	Subheading string
	ThreeJSURL string
	Columns    [][]exerciseView
}

type Renderer struct {
	templates   *template.Template
	tipsManager *tips.Manager
	blueprint   scene.Blueprint
	threeJSURL  string
}

func NewRenderer(tipsManager *tips.Manager, blueprint scene.Blueprint, threeJSURL string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	if threeJSURL == "" {
		threeJSURL = DefaultThreeJSURL
	}

	return &Renderer{
		templates:   tmpl,
		tipsManager: tipsManager,
		blueprint:   blueprint,
		threeJSURL:  threeJSURL,
	}, nil
}

func (r *Renderer) view(exercise pose.Exercise) exerciseView {
	v := exerciseView{
		Name:        exercise.String(),
		Slug:        exercise.Slug(),
		ContainerID: exercise.Slug() + "-container",
		Tips:        r.tipsManager.Tips(exercise),
		Blueprint:   r.blueprint,
	}
	if m, ok := pose.MotionFor(exercise); ok {
		v.Motion = &m
	}
	return v
}

// Render writes the page with one card per exercise, laid out in two columns.
func (r *Renderer) Render(w io.Writer, exercises []pose.Exercise) error {
	pv := pageView{
		Title:      title,
		Heading:    heading,
		Subheading: subheading,
		ThreeJSURL: r.threeJSURL,
		Columns:    make([][]exerciseView, columns),
	}
	for i, e := range exercises {
		pv.Columns[i%columns] = append(pv.Columns[i%columns], r.view(e))
	}

	// a failed template must not leave a half written page behind
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "page", pv); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}

	return nil
}

// RenderBytes renders the page into memory, for caching.
func (r *Renderer) RenderBytes(exercises []pose.Exercise) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, exercises); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
