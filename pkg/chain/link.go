package chain

import (
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/models"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

// Variant is the interaction state a link is drawn in.
type Variant int

const (
	Normal Variant = iota
	Highlighted
	Selected
)

// Palette holds the colors of the non-normal variants.
type Palette struct {
	Highlight [3]float64
	Selected  [3]float64
}

// DefaultPalette is orange for highlight and blue for selection.
func DefaultPalette() Palette {
	return Palette{
		Highlight: [3]float64{0.96470588, 0.59215686, 0.12156863},
		Selected:  [3]float64{0.012, 0.66, 0.95},
	}
}

// Link is the visual instance of one cell role: a clone of a template mesh
// hanging from its own root node, plus the material for each variant.
// Index and Tag identify the owning cell and role and never change.
type Link struct {
	Index int
	Tag   Tag
	Root  scene.NodeID
	Mesh  *models.Mesh

	g        *scene.Graph
	variants [3]models.Material
	variant  Variant
}

// NewLink clones tmpl into a fresh root node of g.
func NewLink(g *scene.Graph, tmpl *models.Template, pal Palette, index int, tag Tag) *Link {
	mesh, mat := tmpl.Instance()
	return &Link{
		Index: index,
		Tag:   tag,
		Root:  g.NewNode(),
		Mesh:  mesh,
		g:     g,
		variants: [3]models.Material{
			Normal:      mat,
			Highlighted: mat.WithColor(mat.Name+"/highlight", pal.Highlight),
			Selected:    mat.WithColor(mat.Name+"/selected", pal.Selected),
		},
	}
}

// Apply switches the active material variant.
func (l *Link) Apply(v Variant) {
	if v < Normal || v > Selected {
		return
	}
	l.variant = v
}

// Variant returns the active variant.
func (l *Link) Variant() Variant {
	return l.variant
}

// Material returns the material of the active variant.
func (l *Link) Material() models.Material {
	return l.variants[l.variant]
}

// Attached reports whether the link is part of the world tree.
func (l *Link) Attached() bool {
	return l.g.Attached(l.Root)
}

// Remove detaches and releases the link's root. It is safe to call repeatedly.
func (l *Link) Remove() {
	l.g.Release(l.Root)
}
