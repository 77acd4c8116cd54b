package models

import "image/color"

// Material is the flat PBR-style material a link is shaded with.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64
	Roughness float64
}

// NewMaterial creates an opaque material from an RGB triple in 0-1 range,
// with the roughness and metalness used for every template.
func NewMaterial(name string, rgb [3]float64) Material {
	return Material{
		Name:      name,
		BaseColor: [4]float64{rgb[0], rgb[1], rgb[2], 1},
		Metallic:  0.1,
		Roughness: 0.3,
	}
}

// WithColor returns a copy of the material with its base color replaced.
func (m Material) WithColor(name string, rgb [3]float64) Material {
	m.Name = name
	m.BaseColor = [4]float64{rgb[0], rgb[1], rgb[2], m.BaseColor[3]}
	return m
}

// RGBA converts the base color to 8-bit channels.
func (m Material) RGBA() color.RGBA {
	return color.RGBA{
		R: channel(m.BaseColor[0]),
		G: channel(m.BaseColor[1]),
		B: channel(m.BaseColor[2]),
		A: channel(m.BaseColor[3]),
	}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
