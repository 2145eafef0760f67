// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LightingVertexShader transforms the model and passes world-space normals.
//
//go:embed lighting.vert
var LightingVertexShader string

// LightingFragmentShader does banded diffuse lighting with silhouette edges
// and a dithered shadow band.
//
//go:embed lighting.frag
var LightingFragmentShader string

// OutlineVertexShader extrudes vertices along their normals.
//
//go:embed outline.vert
var OutlineVertexShader string

// OutlineFragmentShader fills the outline with a flat colour.
//
//go:embed outline.frag
var OutlineFragmentShader string

// MarkerVertexShader draws the light marker.
//
//go:embed marker.vert
var MarkerVertexShader string

// MarkerFragmentShader fills the light marker with the light colour.
//
//go:embed marker.frag
var MarkerFragmentShader string

// Source is a vertex and fragment shader pair known by name.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Lighting, Outline and Marker are the programs the scene compiles.
var (
	Lighting = Source{Name: "lighting", Vertex: LightingVertexShader, Fragment: LightingFragmentShader}
	Outline  = Source{Name: "outline", Vertex: OutlineVertexShader, Fragment: OutlineFragmentShader}
	Marker   = Source{Name: "marker", Vertex: MarkerVertexShader, Fragment: MarkerFragmentShader}
)
