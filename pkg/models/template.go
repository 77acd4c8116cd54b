package models

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Template is an immutable mesh plus base material that links are cloned from.
type Template struct {
	Mesh     *Mesh
	Material Material
}

// NewTemplate wraps a mesh and its base material.
func NewTemplate(mesh *Mesh, mat Material) *Template {
	return &Template{Mesh: mesh, Material: mat}
}

// Instance returns an independent copy of the template geometry and material.
func (t *Template) Instance() (*Mesh, Material) {
	return t.Mesh.Clone(), t.Material
}

// TemplateSource describes where a template comes from. An empty Path selects
// the Fallback geometry instead of a file.
type TemplateSource struct {
	Name     string
	Path     string
	Color    [3]float64
	Fallback func() *Mesh
}

// LoadTemplate loads a single template.
func LoadTemplate(src TemplateSource) (*Template, error) {
	mat := NewMaterial(src.Name, src.Color)
	if src.Path == "" {
		if src.Fallback == nil {
			return nil, fmt.Errorf("template %s: no path and no fallback", src.Name)
		}
		return NewTemplate(src.Fallback(), mat), nil
	}

	mesh, err := LoadGLB(src.Path)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", src.Name, err)
	}
	return NewTemplate(mesh, mat), nil
}

// LoadTemplates loads every source concurrently and returns the templates in
// source order. The first failure cancels the rest and is returned.
func LoadTemplates(ctx context.Context, srcs ...TemplateSource) ([]*Template, error) {
	out := make([]*Template, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadTemplate(src)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
